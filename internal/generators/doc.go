// Package generators holds the generators that ship with theo.
//
// Each generator stages its changes on a generator.Tree and declares the
// probes that tell whether it is already installed. Templates are embedded
// and rendered through a shared generator.Renderer.
//
// Built-ins:
//
//	editorconfig             .editorconfig with the house formatting rules
//	ci                       GitHub Actions workflow for a Go or Node project
//	module <name>            NestJS feature module registered in the app module
//	config-field <N> <T> [k] field on the Go Config struct
package generators
