package sqlite

const schema = `
-- Spaces table
CREATE TABLE IF NOT EXISTS spaces (
    id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL CHECK(length(display_name) <= 500),
    route TEXT NOT NULL UNIQUE,
    root_group_id TEXT NOT NULL DEFAULT '',
    main_revision_id TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Live document tree. Routes are permalinks and unique across spaces.
-- lft/rgt are nested-set indices rebuilt from parent_id/sort_order.
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    doc_key TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL CHECK(length(title) <= 500),
    slug TEXT NOT NULL DEFAULT '',
    is_group INTEGER NOT NULL DEFAULT 0,
    is_published INTEGER NOT NULL DEFAULT 0,
    parent_id TEXT NOT NULL DEFAULT '',
    sort_order INTEGER NOT NULL DEFAULT 0,
    route TEXT NOT NULL UNIQUE,
    content TEXT NOT NULL DEFAULT '',
    lft INTEGER NOT NULL DEFAULT 0,
    rgt INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_documents_parent ON documents(parent_id, sort_order);
CREATE INDEX IF NOT EXISTS idx_documents_lft ON documents(lft);

-- Content-addressed blob store, deduplicated on hash.
CREATE TABLE IF NOT EXISTS blobs (
    id TEXT PRIMARY KEY,
    hash TEXT NOT NULL UNIQUE,
    content TEXT NOT NULL DEFAULT '',
    content_type TEXT NOT NULL DEFAULT 'markdown',
    size INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Revisions: immutable snapshots except the working revision of an
-- open change request.
CREATE TABLE IF NOT EXISTS revisions (
    id TEXT PRIMARY KEY,
    space_id TEXT NOT NULL,
    parent_revision_id TEXT NOT NULL DEFAULT '',
    change_request_id TEXT NOT NULL DEFAULT '',
    message TEXT NOT NULL DEFAULT '',
    is_working INTEGER NOT NULL DEFAULT 0,
    is_merge INTEGER NOT NULL DEFAULT 0,
    tree_hash TEXT NOT NULL DEFAULT '',
    content_hash TEXT NOT NULL DEFAULT '',
    doc_count INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    created_by TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_revisions_space ON revisions(space_id, created_at);

CREATE TABLE IF NOT EXISTS revision_items (
    revision_id TEXT NOT NULL,
    doc_key TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    slug TEXT NOT NULL DEFAULT '',
    is_group INTEGER NOT NULL DEFAULT 0,
    is_published INTEGER NOT NULL DEFAULT 0,
    parent_key TEXT NOT NULL DEFAULT '',
    order_index INTEGER NOT NULL DEFAULT 0,
    blob_id TEXT NOT NULL DEFAULT '',
    is_deleted INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (revision_id, doc_key)
);

CREATE TABLE IF NOT EXISTS change_requests (
    id TEXT PRIMARY KEY,
    space_id TEXT NOT NULL,
    title TEXT NOT NULL CHECK(length(title) <= 500),
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'Draft',
    base_revision_id TEXT NOT NULL,
    head_revision_id TEXT NOT NULL,
    merge_revision_id TEXT NOT NULL DEFAULT '',
    outdated INTEGER NOT NULL DEFAULT 0,
    owner TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    merged_at DATETIME,
    merged_by TEXT NOT NULL DEFAULT '',
    archived_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_change_requests_space ON change_requests(space_id, status);

CREATE TABLE IF NOT EXISTS cr_reviewers (
    change_request_id TEXT NOT NULL,
    reviewer TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'Requested',
    reviewed_at DATETIME,
    comment TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (change_request_id, reviewer)
);

CREATE TABLE IF NOT EXISTS merge_conflicts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    change_request_id TEXT NOT NULL,
    doc_key TEXT NOT NULL,
    conflict_type TEXT NOT NULL,
    base_payload TEXT NOT NULL DEFAULT '',
    ours_payload TEXT NOT NULL DEFAULT '',
    theirs_payload TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'Open',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_merge_conflicts_cr ON merge_conflicts(change_request_id);

-- Key-value config (user-facing settings)
CREATE TABLE IF NOT EXISTS config (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL DEFAULT ''
);

-- Key-value metadata (internal state)
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL DEFAULT ''
);
`
