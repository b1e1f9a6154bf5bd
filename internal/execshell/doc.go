// Package execshell runs external tools such as the GitHub CLI behind a
// CommandRunner abstraction so callers can substitute recorded runners in tests.
package execshell
