// Package boot seeds a fresh filesystem and replays the startup script.
//
// FirstBoot lays out the conventional folders and default config files the
// first time the filesystem comes up (when the root does not exist yet).
// RunAutoexec reads /config/autoexec.ini and launches every app it names,
// in order:
//
//	run=clock          ; top-level run keys first
//
//	[run]
//	explorer           ; then every entry of the [run] section
//	app=terminal
//
// Both use only the public filesystem operations.
package boot
