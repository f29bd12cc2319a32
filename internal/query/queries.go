package query

// Queries are immutable read intents carrying the acting user and the
// target resource ids. Handlers authorize via membership, never mutate.

// GetBoardQuery fetches one board
type GetBoardQuery struct {
	BoardID uint
	UserID  uint
}

// ListMyBoardsQuery lists boards owned by the user; identity-scoped,
// so it needs no resource authorization.
type ListMyBoardsQuery struct {
	UserID uint
}

// ListAccessibleBoardsQuery lists every board the user is a member of
type ListAccessibleBoardsQuery struct {
	UserID uint
}

// GetCardQuery fetches one card scoped to its board
type GetCardQuery struct {
	CardID  uint
	BoardID uint
	UserID  uint
}

// ListCardsQuery lists a board's cards ordered by position
type ListCardsQuery struct {
	BoardID uint
	UserID  uint
}

// ListMembersQuery lists a board's memberships
type ListMembersQuery struct {
	BoardID uint
	UserID  uint
}

// ListActivityQuery lists a board's activity feed after a cursor
type ListActivityQuery struct {
	BoardID uint
	UserID  uint
	AfterID uint
	Limit   int
}
