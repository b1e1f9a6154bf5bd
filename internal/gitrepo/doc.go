// Package gitrepo parses repository coordinates given as "owner/name" or as a
// GitHub remote URL.
package gitrepo
