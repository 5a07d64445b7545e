package ir

// Version constants for the engine.
const (
	// EngineVersion is the qcore engine version.
	EngineVersion = "0.1.0"

	// RewriteVersion identifies the rewrite rule set. Bump it whenever a
	// rule changes so statement fingerprints from different rule sets
	// never collide.
	RewriteVersion = "1"
)
