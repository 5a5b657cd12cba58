// ABOUTME: SQLite database schema for the coach message store
// ABOUTME: Creates all tables and indexes, including the idempotent coach index
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Conversations (real threads and synthetic coach threads)
CREATE TABLE IF NOT EXISTS conversations (
    id TEXT PRIMARY KEY,
    participants TEXT NOT NULL,
    is_coach INTEGER NOT NULL DEFAULT 0,
    parent_id TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    last_message_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Messages (append-only timeline per conversation)
CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
    sender_id TEXT NOT NULL,
    text TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Coach index: at most one coach conversation per (user, parent) pair.
-- The UNIQUE constraint is what makes coach-chat creation idempotent.
CREATE TABLE IF NOT EXISTS coach_index (
    user_id TEXT NOT NULL,
    parent_id TEXT NOT NULL,
    coach_id TEXT NOT NULL REFERENCES conversations(id),
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(user_id, parent_id)
);

-- User profiles (partner links drive relationship classification)
CREATE TABLE IF NOT EXISTS profiles (
    user_id TEXT PRIMARY KEY,
    name TEXT,
    partner_id TEXT,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at);
CREATE INDEX IF NOT EXISTS idx_conversations_parent ON conversations(parent_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
