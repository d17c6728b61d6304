package repo

// CrateFolder returns the directory segments a crate's index file lives
// under, mirroring Cargo's own sparse-index sharding: names of length 1
// through 3 get a single folder named after their length, and names of
// four or more characters are split into two two-character folders
// taken from the front of the name.
func CrateFolder(crateName string) []string {
	switch len(crateName) {
	case 0:
		return nil
	case 1:
		return []string{"1"}
	case 2:
		return []string{"2"}
	case 3:
		return []string{"3"}
	default:
		return []string{crateName[:2], crateName[2:4]}
	}
}
