package entity

import "time"

// Tipo de autor de un comentario: usuario autenticado o portador de magic link.
// Se modela como valor etiquetado (nunca dos campos anulables) para que
// "ambos vacíos" o "ambos presentes" sea imposible por construcción.
const (
	AuthorKindUser      = "USER"
	AuthorKindMagicLink = "MAGIC_LINK"
)

// Author identifica quién escribe un comentario.
type Author struct {
	Kind   string // AuthorKindUser | AuthorKindMagicLink
	UserID string // solo si Kind == USER
	Token  string // solo si Kind == MAGIC_LINK
}

// UserAuthor construye un autor de tipo usuario autenticado.
func UserAuthor(userID string) Author {
	return Author{Kind: AuthorKindUser, UserID: userID}
}

// MagicLinkAuthor construye un autor anónimo vía magic link.
func MagicLinkAuthor(token string) Author {
	return Author{Kind: AuthorKindMagicLink, Token: token}
}

// IsValid verifica que el autor tenga exactamente una referencia no vacía.
func (a Author) IsValid() bool {
	switch a.Kind {
	case AuthorKindUser:
		return a.UserID != "" && a.Token == ""
	case AuthorKindMagicLink:
		return a.Token != "" && a.UserID == ""
	}
	return false
}

// Roles de autor usados en comentarios (etiqueta libre; estos son los habituales).
const (
	CommentRoleSupplier = "SUPPLIER"
	CommentRolePM       = "PM"
	CommentRoleQA       = "QA"
)

// Comment es una entrada del hilo append-only de un NCR.
// Inmutable una vez creado: no hay edición ni borrado.
type Comment struct {
	ID             string
	NCRID          string
	Author         Author
	AuthorRole     string // SUPPLIER, PM, QA, ...
	IsInternal     bool   // true = oculto en vistas de proveedor
	Content        string
	AttachmentURLs []string
	VoiceNoteURL   *string
	CreatedAt      time.Time
}

// HasContent indica si el comentario aporta algo: texto, adjuntos o nota de voz.
func (c *Comment) HasContent() bool {
	return c.Content != "" || len(c.AttachmentURLs) > 0 || (c.VoiceNoteURL != nil && *c.VoiceNoteURL != "")
}
