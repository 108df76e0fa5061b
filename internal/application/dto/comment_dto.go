package dto

import "time"

// AddCommentRequest nuevo comentario en el hilo (ruta autenticada).
type AddCommentRequest struct {
	Content        string   `json:"content"`
	AttachmentURLs []string `json:"attachment_urls"`
	VoiceNoteURL   *string  `json:"voice_note_url"`
	AuthorRole     string   `json:"author_role" validate:"required"`
	IsInternal     bool     `json:"is_internal"`
}

// PublicCommentRequest comentario vía magic link (sin sesión).
// El rol siempre es SUPPLIER y nunca puede ser interno.
type PublicCommentRequest struct {
	Content        string   `json:"content"`
	AttachmentURLs []string `json:"attachment_urls"`
	VoiceNoteURL   *string  `json:"voice_note_url"`
}

// CommentResponse proyección de un comentario del hilo.
type CommentResponse struct {
	ID             string    `json:"id"`
	NCRID          string    `json:"ncr_id"`
	AuthorKind     string    `json:"author_kind"`
	AuthorUserID   string    `json:"author_user_id,omitempty"`
	AuthorRole     string    `json:"author_role"`
	IsInternal     bool      `json:"is_internal"`
	Content        string    `json:"content"`
	AttachmentURLs []string  `json:"attachment_urls"`
	VoiceNoteURL   *string   `json:"voice_note_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
