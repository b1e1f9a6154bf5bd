// Package githubauth resolves GitHub credentials from the environment and,
// when wired, from the logged-in GitHub CLI.
package githubauth
