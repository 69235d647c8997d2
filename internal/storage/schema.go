package storage

const schema = `
-- The 'stacks' table holds named collections of cards.
CREATE TABLE IF NOT EXISTS stacks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

-- The 'cards' table stores every card with its Leitner scheduling state.
-- answers and choices are JSON arrays of strings.
CREATE TABLE IF NOT EXISTS cards (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    stack_id INTEGER NOT NULL,
    type INTEGER NOT NULL, -- 1: Flashcard, 2: Cloze, 3: FillIn, 4: MultipleChoice
    front TEXT NOT NULL DEFAULT '',
    back TEXT NOT NULL DEFAULT '',
    text TEXT NOT NULL DEFAULT '',
    answers TEXT NOT NULL DEFAULT '[]',
    choices TEXT NOT NULL DEFAULT '[]',
    hash TEXT NOT NULL DEFAULT '',
    box INTEGER NOT NULL DEFAULT 1 CHECK (box BETWEEN 1 AND 3),
    next_review_ts BIGINT NOT NULL,

    FOREIGN KEY(stack_id) REFERENCES stacks(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_cards_stack_due ON cards (stack_id, next_review_ts);
CREATE INDEX IF NOT EXISTS idx_cards_stack_hash ON cards (stack_id, hash);

-- The 'study_sessions' table is append-only: one row per finished session.
CREATE TABLE IF NOT EXISTS study_sessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    stack_id INTEGER NOT NULL,
    performed_ts BIGINT NOT NULL,
    score INTEGER NOT NULL,

    FOREIGN KEY(stack_id) REFERENCES stacks(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_study_sessions_performed ON study_sessions (performed_ts);
`
