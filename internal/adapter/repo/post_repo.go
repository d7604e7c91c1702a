package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"flabi/internal/domain"
	"flabi/internal/infra"
	"flabi/internal/sqlinline"
)

// PostRepositoryPG implements domain.PostRepository using PostgreSQL.
type PostRepositoryPG struct {
	db infra.SQLExecutor
}

// NewPostRepository creates a new post repo.
func NewPostRepository(db infra.SQLExecutor) *PostRepositoryPG {
	return &PostRepositoryPG{db: db}
}

// List returns all posts, newest first.
func (r *PostRepositoryPG) List(ctx context.Context) ([]domain.BlogPost, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListPosts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.BlogPost{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches one post by id.
func (r *PostRepositoryPG) Get(ctx context.Context, id string) (*domain.BlogPost, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	post, err := scanPost(r.db.QueryRow(ctx, sqlinline.QSelectPostByID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return post, err
}

// Create inserts post and fills in the generated id and timestamp.
func (r *PostRepositoryPG) Create(ctx context.Context, post *domain.BlogPost) error {
	images, err := encodeImages(post.Images)
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, sqlinline.QInsertPost, post.Title, post.Body, images).
		Scan(&post.ID, &post.CreatedAt)
}

// Update replaces title, body and images of an existing post.
func (r *PostRepositoryPG) Update(ctx context.Context, post *domain.BlogPost) error {
	if !validID(post.ID) {
		return domain.ErrNotFound
	}
	images, err := encodeImages(post.Images)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, sqlinline.QUpdatePost, post.ID, post.Title, post.Body, images)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a post. Deleting a missing post is not an error.
func (r *PostRepositoryPG) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	_, err := r.db.Exec(ctx, sqlinline.QDeletePost, id)
	return err
}

// validID reports whether id can name a row. Ids are uuid columns and
// postgres rejects anything else with 22P02 instead of matching nothing.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func scanPost(row pgx.Row) (*domain.BlogPost, error) {
	var (
		post   domain.BlogPost
		images string
	)
	if err := row.Scan(&post.ID, &post.Title, &post.Body, &images, &post.CreatedAt); err != nil {
		return nil, err
	}
	post.Images = domain.NormalizeImages([]byte(images))
	return &post, nil
}

func encodeImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	raw, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("encode images: %w", err)
	}
	return string(raw), nil
}

var _ domain.PostRepository = (*PostRepositoryPG)(nil)
