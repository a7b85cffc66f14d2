package protocol

import "strings"

// ListingDelimiter separates names in room and player listings.
const ListingDelimiter = "|"

// JoinListing encodes names as a single delimiter-joined string. No names
// encode to the empty string.
func JoinListing(names []string) string {
	return strings.Join(names, ListingDelimiter)
}

// SplitListing decodes a listing produced by JoinListing. The empty string
// means "no entries" and yields an empty slice, never a single empty name.
func SplitListing(listing string) []string {
	if listing == "" {
		return []string{}
	}
	return strings.Split(listing, ListingDelimiter)
}
