// Package buildinfo reports the version of the running binary.
//
// Values come from ldflags when set:
//
//	go build -ldflags "-X github.com/yndnr/respkv/internal/infra/buildinfo.Version=v1.0.0"
//
// and otherwise from the module and VCS metadata the Go toolchain embeds.
package buildinfo
