// Package issues fetches tracker issues and normalizes them into a
// shared model.
//
// Raw API objects never leave this package: the GitHub and GitLab
// clients both return [Set] values built from [Issue], so the bots can
// analyze either tracker without caring which one a project uses.
package issues
