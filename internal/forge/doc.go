// Package forge talks to the git hosting service.
//
// ketra uses the hosting service for two things: creating a private
// repository when a project without a remote is pushed for the first time,
// and deleting that repository again when the project is deleted. Both go
// through the GitHub REST API using a personal token.
//
// # Tokens
//
// [DefaultToken] looks for a token in the configured environment variable
// (GITHUB_TOKEN by default) and falls back to "gh auth token", so a logged-in
// GitHub CLI is enough. Without a token, [GitHub.CreateRepo] fails with
// [ErrNoToken] and [GitHub.DeleteRepo] is skipped.
//
// # Usage
//
//	gh := forge.NewGitHub(cfg.GitHub.APIURL, forge.DefaultToken(cfg.GitHub.TokenEnv, runner))
//	cloneURL, err := gh.CreateRepo(ctx, "my-project")
//
// Never call the hosting API directly outside this package.
package forge
