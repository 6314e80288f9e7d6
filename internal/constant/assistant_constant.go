package constant

const (
	MessageRoleHuman = "human"
	MessageRoleAI    = "ai"

	// Roles used when a persisted AI turn is flattened into the history
	// representation sent to the assistant backend.
	MessageRoleToolCall = "tool_call"
	MessageRoleTool     = "tool"

	ToolStepKindCall   = "tool_call"
	ToolStepKindResult = "tool"
)

// Gateway-level denial replies for sandboxed query execution. The "-ERR: "
// prefix distinguishes a gateway denial from a database-native error, which
// is returned verbatim.
const (
	QueryNotPermittedReply = "-ERR: Query execution is not permitted for this database"
	QueryNotAllowedReply   = "-ERR: This command is not allowed"
)

// ContextConsentError is the fixed marker returned in place of context when
// the database-level data consent has not been granted. It short-circuits
// both the cache and the builder.
const ContextConsentError = "Data consent has not been granted for this database"

// DefaultAllowedCommands is the default whitelist for sandboxed query
// execution: read-only search/aggregate commands only. Deny by default,
// exact match, no prefixes.
var DefaultAllowedCommands = []string{
	"ft.search",
	"ft.aggregate",
	"ft.profile",
	"ft.explain",
	"ft.info",
	"ft._list",
}

const (
	// Bounds applied when shaping sandboxed query replies. Overridable via
	// configuration.
	DefaultQueryReplyMaxResults = 10
	DefaultQueryReplyMaxNested  = 5
)

const TurnCompletedTopic = "CONVERSATION_TURN_COMPLETED"
