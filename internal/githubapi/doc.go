// Package githubapi adapts the go-github REST client to the release listing and
// deletion collaborators used by the releases package.
package githubapi
