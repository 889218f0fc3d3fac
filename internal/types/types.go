// Package types defines the core data model for the versioned wiki tree:
// spaces, documents, content blobs, revisions, change requests, and merge
// conflicts.
package types

import "time"

// CRStatus is the lifecycle state of a change request.
type CRStatus string

const (
	StatusDraft            CRStatus = "Draft"
	StatusInReview         CRStatus = "In Review"
	StatusChangesRequested CRStatus = "Changes Requested"
	StatusApproved         CRStatus = "Approved"
	StatusMerged           CRStatus = "Merged"
	StatusArchived         CRStatus = "Archived"
)

// ReviewStatus is the state of a single reviewer on a change request.
type ReviewStatus string

const (
	ReviewRequested        ReviewStatus = "Requested"
	ReviewApproved         ReviewStatus = "Approved"
	ReviewChangesRequested ReviewStatus = "Changes Requested"
)

// ConflictType classifies a merge conflict.
type ConflictType string

const (
	ConflictContent ConflictType = "content"
	ConflictMeta    ConflictType = "meta"
	ConflictTree    ConflictType = "tree"
)

// ConflictStatus is the resolution state of a recorded merge conflict.
type ConflictStatus string

const (
	ConflictOpen     ConflictStatus = "Open"
	ConflictResolved ConflictStatus = "Resolved"
)

// DefaultContentType is the content type assigned to blobs when the
// caller does not specify one.
const DefaultContentType = "markdown"

// DocKeyLength is the length of the stable opaque document key that
// correlates a document across revisions.
const DocKeyLength = 12

// Space is a top-level wiki container with its own document tree and
// main revision.
type Space struct {
	ID             string    `json:"id"`
	DisplayName    string    `json:"display_name"`
	Route          string    `json:"route"`
	RootGroupID    string    `json:"root_group_id,omitempty"`
	MainRevisionID string    `json:"main_revision_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Document is a node in the live tree. A group document may have
// children; a page document carries content. Routes are permalinks:
// they survive reorder and reparent and change only through an explicit
// route rewrite.
type Document struct {
	ID          string `json:"id"`
	DocKey      string `json:"doc_key,omitempty"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	IsGroup     bool   `json:"is_group"`
	IsPublished bool   `json:"is_published"`
	ParentID    string `json:"parent_id,omitempty"`
	SortOrder   int    `json:"sort_order"`
	Route       string `json:"route"`
	Content     string `json:"content,omitempty"`

	// Nested-set indices, maintained as a read-side denormalization of
	// the parent/sort_order structure.
	Lft int `json:"lft"`
	Rgt int `json:"rgt"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Blob is an immutable content-addressed text body keyed by the hex
// SHA-256 of its bytes. Blobs are deduplicated: putting the same content
// twice yields the same blob.
type Blob struct {
	ID          string    `json:"id"`
	Hash        string    `json:"hash"`
	Content     string    `json:"content"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// Revision is an immutable snapshot of a space's tree and content.
// Working revisions (IsWorking) are the single mutable exception: they
// belong to exactly one open change request.
type Revision struct {
	ID               string    `json:"id"`
	SpaceID          string    `json:"space_id"`
	ParentRevisionID string    `json:"parent_revision_id,omitempty"`
	ChangeRequestID  string    `json:"change_request_id,omitempty"`
	Message          string    `json:"message"`
	IsWorking        bool      `json:"is_working"`
	IsMerge          bool      `json:"is_merge"`
	TreeHash         string    `json:"tree_hash"`
	ContentHash      string    `json:"content_hash"`
	DocCount         int       `json:"doc_count"`
	CreatedAt        time.Time `json:"created_at"`
	CreatedBy        string    `json:"created_by"`
}

// RevisionItem is one document's snapshot inside a revision. ParentKey
// refers to another item's DocKey within the same revision; it is empty
// for the root item.
type RevisionItem struct {
	RevisionID  string `json:"revision_id"`
	DocKey      string `json:"doc_key"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	IsGroup     bool   `json:"is_group"`
	IsPublished bool   `json:"is_published"`
	ParentKey   string `json:"parent_key,omitempty"`
	OrderIndex  int    `json:"order_index"`
	BlobID      string `json:"content_blob_id,omitempty"`
	IsDeleted   bool   `json:"is_deleted"`

	// ContentHash is the hash of the referenced blob, filled in by
	// denormalized item reads. It is not stored on the item row.
	ContentHash string `json:"content_hash,omitempty"`
}

// Reviewer is one reviewer row on a change request.
type Reviewer struct {
	Reviewer   string       `json:"reviewer"`
	Status     ReviewStatus `json:"status"`
	ReviewedAt *time.Time   `json:"reviewed_at,omitempty"`
	Comment    string       `json:"comment,omitempty"`
}

// ChangeRequest is a branch over a space: a base revision, a working
// head revision, reviewers, and a status.
type ChangeRequest struct {
	ID              string     `json:"id"`
	SpaceID         string     `json:"space_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Status          CRStatus   `json:"status"`
	BaseRevisionID  string     `json:"base_revision_id"`
	HeadRevisionID  string     `json:"head_revision_id"`
	MergeRevisionID string     `json:"merge_revision_id,omitempty"`
	Outdated        bool       `json:"outdated"`
	Owner           string     `json:"owner"`
	Reviewers       []Reviewer `json:"reviewers,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	MergedAt        *time.Time `json:"merged_at,omitempty"`
	MergedBy        string     `json:"merged_by,omitempty"`
	ArchivedAt      *time.Time `json:"archived_at,omitempty"`
}

// Open reports whether the change request still owns a working head.
func (cr *ChangeRequest) Open() bool {
	return cr.Status != StatusMerged && cr.Status != StatusArchived
}

// MergeConflict records one irreconcilable divergence found during a
// merge attempt. Payloads are the JSON-encoded normalized items of each
// side (empty string for an absent side).
type MergeConflict struct {
	ID              int64          `json:"id"`
	ChangeRequestID string         `json:"change_request_id"`
	DocKey          string         `json:"doc_key"`
	Type            ConflictType   `json:"conflict_type"`
	BasePayload     string         `json:"base_payload,omitempty"`
	OursPayload     string         `json:"ours_payload,omitempty"`
	TheirsPayload   string         `json:"theirs_payload,omitempty"`
	Status          ConflictStatus `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
}

// DocumentUpdate is a partial update of a revision item through the CR
// editor. Nil fields are left untouched.
type DocumentUpdate struct {
	Title       *string `json:"title,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	IsGroup     *bool   `json:"is_group,omitempty"`
	IsPublished *bool   `json:"is_published,omitempty"`
	Content     *string `json:"content,omitempty"`
	IsDeleted   *bool   `json:"is_deleted,omitempty"`
}

// DiffEntry is one row of a summary diff between two revisions.
type DiffEntry struct {
	DocKey     string `json:"doc_key"`
	ChangeType string `json:"change_type"` // added, deleted, modified
	Title      string `json:"title"`
	IsGroup    bool   `json:"is_group"`
}

const (
	ChangeAdded    = "added"
	ChangeDeleted  = "deleted"
	ChangeModified = "modified"
)
