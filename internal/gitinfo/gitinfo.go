// Package gitinfo collects source-control facts for detailed reports.
package gitinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/perfrun/perfrun/internal/report"
)

// Provider reads repository facts through go-git. Lookups fail when the
// configured path is not inside a recognizable repository; that failure
// propagates instead of being swallowed.
type Provider struct{}

func (Provider) GitFacts(workTree string) (report.GitFacts, error) {
	repo, err := git.PlainOpenWithOptions(workTree, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return report.GitFacts{}, fmt.Errorf("could not open repository at %q: %w", workTree, err)
	}

	head, err := repo.Head()
	if err != nil {
		return report.GitFacts{}, fmt.Errorf("could not resolve HEAD: %w", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return report.GitFacts{}, fmt.Errorf("could not read head commit: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return report.GitFacts{}, fmt.Errorf("could not walk commits: %w", err)
	}
	numCommits := 0
	if err := iter.ForEach(func(*object.Commit) error {
		numCommits++
		return nil
	}); err != nil {
		return report.GitFacts{}, fmt.Errorf("could not count commits: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return report.GitFacts{}, fmt.Errorf("could not open worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return report.GitFacts{}, fmt.Errorf("could not read worktree status: %w", err)
	}
	filesChanged := 0
	for _, fileStatus := range status {
		if fileStatus.Worktree != git.Unmodified || fileStatus.Staging != git.Unmodified {
			filesChanged++
		}
	}

	return report.GitFacts{
		HeadHash:     head.Hash().String(),
		HeadMessage:  commit.Message,
		HeadAuthor:   commit.Author.Name,
		BranchName:   head.Name().Short(),
		FilesChanged: filesChanged,
		NumCommits:   numCommits,
	}, nil
}
