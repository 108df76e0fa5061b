package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/procura-pro/internal/domain/entity"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
)

var _ repository.CommentRepository = (*CommentRepo)(nil)

// CommentRepo implementación de CommentRepository sobre PostgreSQL.
// El autor se persiste como unión etiquetada: author_kind + (author_user_id | author_token).
type CommentRepo struct {
	q Querier
}

// NewCommentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCommentRepository(q Querier) *CommentRepo {
	return &CommentRepo{q: q}
}

// Create persiste un comentario. Los comentarios son append-only: no hay Update ni Delete.
func (r *CommentRepo) Create(ctx context.Context, c *entity.Comment) error {
	query := `
		INSERT INTO ncr_comments (id, ncr_id, author_kind, author_user_id, author_token, author_role, is_internal, content, attachment_urls, voice_note_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.NCRID, c.Author.Kind, nullable(c.Author.UserID), nullable(c.Author.Token),
		c.AuthorRole, c.IsInternal, c.Content, c.AttachmentURLs, c.VoiceNoteURL, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// ListByNCR devuelve el hilo del más reciente al más antiguo.
// includeInternal=false filtra los comentarios internos (vistas de proveedor).
func (r *CommentRepo) ListByNCR(ctx context.Context, ncrID string, includeInternal bool) ([]*entity.Comment, error) {
	query := `
		SELECT id, ncr_id, author_kind, author_user_id, author_token, author_role, is_internal, content, attachment_urls, voice_note_url, created_at
		FROM ncr_comments WHERE ncr_id = $1`
	if !includeInternal {
		query += ` AND is_internal = false`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, ncrID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Comment
	for rows.Next() {
		var c entity.Comment
		var userID, token *string
		if err := rows.Scan(&c.ID, &c.NCRID, &c.Author.Kind, &userID, &token,
			&c.AuthorRole, &c.IsInternal, &c.Content, &c.AttachmentURLs, &c.VoiceNoteURL, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		if userID != nil {
			c.Author.UserID = *userID
		}
		if token != nil {
			c.Author.Token = *token
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// nullable convierte string vacío en NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
