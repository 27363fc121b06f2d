package library

// ComputeStats counts catalog entries and how many of them have a copy
// on the shelf. It is recomputed on every call.
func ComputeStats(catalog []*Book) Stats {
	s := Stats{Total: len(catalog)}
	for _, b := range catalog {
		if b.CheckAvailability() {
			s.Available++
		}
	}
	return s
}
