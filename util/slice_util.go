package util

// DistinctStrings dedupe preserving first-seen order
func DistinctStrings(vs []string) (res []string) {
	seen := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		res = append(res, v)
	}
	return res
}
