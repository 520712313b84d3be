// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	owner TEXT NOT NULL,
	date TEXT NOT NULL,
	pair TEXT NOT NULL,
	direction TEXT NOT NULL,
	strategy TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	lots REAL,
	entry REAL NOT NULL,
	stop REAL NOT NULL,
	target REAL,
	exit_price REAL,
	gross_pnl REAL,
	swap REAL NOT NULL DEFAULT 0,
	score TEXT NOT NULL DEFAULT '',
	emotion TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'closed',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_owner_date ON trades(owner, date);

CREATE TABLE IF NOT EXISTS instruments (
	id TEXT PRIMARY KEY,
	owner TEXT NOT NULL,
	name TEXT NOT NULL,
	spread_cost REAL NOT NULL DEFAULT 5,
	sort_order INTEGER NOT NULL DEFAULT 0,
	UNIQUE(owner, name)
);

CREATE TABLE IF NOT EXISTS notes (
	id TEXT PRIMARY KEY,
	owner TEXT NOT NULL,
	kind TEXT NOT NULL,
	period TEXT NOT NULL,
	lesson TEXT NOT NULL DEFAULT '',
	plan TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS policies (
	id TEXT PRIMARY KEY,
	owner TEXT NOT NULL,
	category TEXT NOT NULL,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	sort_order INTEGER NOT NULL DEFAULT 0,
	active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS trade_violations (
	trade_id TEXT NOT NULL REFERENCES trades(id) ON DELETE CASCADE,
	policy_id TEXT NOT NULL REFERENCES policies(id) ON DELETE CASCADE,
	PRIMARY KEY (trade_id, policy_id)
);
`
