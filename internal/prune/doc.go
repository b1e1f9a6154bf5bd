// Package prune wires configuration, the GitHub API client and the release
// collector and remover into the delete-old-releases command.
//
// Service.Run resolves the inputs of one run, lists every release page, selects
// stale releases and deletes them in order. CommandBuilder exposes the service as
// a cobra command whose flags take precedence over GitHub Actions inputs and the
// configuration file.
package prune
