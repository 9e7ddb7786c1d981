package service

import (
	"context"

	"journal/internal/rbac/model"
)

var samplePosts = []model.Post{
	{
		Title:    "Welcome to Orient Way",
		Subtitle: "A journey begins with a single step",
		Content: `# Welcome

This journal collects notes from the road, from the workshop and from the
places in between.

## What to expect

- **Travel** stories written slowly, after the trip
- Notes on building software in public
- The occasional detour

Thanks for stopping by.`,
		Category: "Life",
		Tags:     []string{"welcome", "introduction", "travel", "technology"},
		Slug:     "welcome-to-orient-way",
		Status:   model.PostStatusPublished,
	},
	{
		Title:    "Building in Public: The Startup Journey",
		Subtitle: "Lessons from the entrepreneurial trenches",
		Content: `# Building in Public

Shipping early means showing unfinished work. That is uncomfortable and it is
also the fastest way to learn what matters.

## Three habits that stuck

1. Write down every decision and the reason behind it
2. Share numbers, even small ones
3. Ask for feedback before it feels ready`,
		Category: "Business",
		Tags:     []string{"startup", "entrepreneurship", "lessons", "building"},
		Slug:     "building-in-public-startup-journey",
		Status:   model.PostStatusDraft,
	},
	{
		Title:    "The Art of Slow Travel",
		Subtitle: "Why rushing misses the point",
		Content: `# The Art of Slow Travel

Staying a month in one town teaches more than a week in five. You learn which
bakery opens first and which bus never comes on Sundays.

## Start small

Pick one place, rent a room by the week and let the itinerary stay empty.`,
		Category: "Travel",
		Tags:     []string{"travel", "philosophy", "slow-living", "south-america"},
		Slug:     "art-of-slow-travel",
		Status:   model.PostStatusPublished,
	},
}

// SeedSamplePosts creates the sample posts authored by the calling owner.
// Posts whose slug already exists are skipped, so repeated calls are safe.
func (s *Service) SeedSamplePosts(ctx context.Context) ([]string, error) {
	actorID := s.Identity.CurrentUserID(ctx)
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	if !s.IsOwner(ctx, actorID) {
		return nil, ErrUnauthorized
	}

	ids := []string{}
	for _, sample := range samplePosts {
		existing, err := s.Repo.FindPosts(ctx, model.PostFilter{Slug: sample.Slug})
		if err != nil {
			return ids, storeError("find posts by slug", err)
		}
		if len(existing) > 0 {
			continue
		}

		post, err := s.CreatePost(ctx, actorID, model.CreatePostReq{
			Title:    sample.Title,
			Subtitle: sample.Subtitle,
			Content:  sample.Content,
			Slug:     sample.Slug,
			Category: sample.Category,
			Tags:     sample.Tags,
			Status:   sample.Status,
		})
		if err != nil {
			return ids, err
		}
		ids = append(ids, post.ID)
	}

	s.Logger.Info("sample posts seeded", "actor_id", actorID, "created", len(ids))
	return ids, nil
}
