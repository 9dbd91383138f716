package store

// Owns reports whether the requester is the recorded owner of a resource.
// Pure identifier comparison, shared by every owner-scoped mutation.
func Owns(ownerID uint, requester Identity) bool {
	return ownerID != 0 && ownerID == requester.UserID
}
