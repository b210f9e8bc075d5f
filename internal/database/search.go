package database

// ContainsPattern wraps a query for a LIKE substring match.
func ContainsPattern(query string) string {
	return "%" + query + "%"
}
