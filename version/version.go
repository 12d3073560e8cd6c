package version

// Version is the cevia release version, overridable at build time with
// -ldflags "-X github.com/gtkrshnaaa/cevia/version.Version=...".
var Version = "0.1.0"
