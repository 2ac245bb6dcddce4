package socialcontent

import "context"

// hashtagService implements HashtagService on top of a Repository.
type hashtagService struct {
	repository Repository
}

// NewHashtagService creates a HashtagService backed by repo.
func NewHashtagService(repo Repository) HashtagService {
	return &hashtagService{repository: repo}
}

// GetAll returns every known hashtag. The listing is unbounded; the
// hashtag set is small and curated.
func (s *hashtagService) GetAll(ctx context.Context) ([]*Hashtag, error) {
	return s.repository.ListHashtags(ctx)
}
