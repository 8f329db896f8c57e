package analyzer

import "opencsg.com/image-moderation/builder/sightengine"

const noneLabel = "none"

// SumProbabilities adds up every number nested under v, skipping entries keyed
// "none" together with their subtrees. The total is not clamped to 1.
func SumProbabilities(v sightengine.Value) float64 {
	var total float64
	v.Each(func(key string, child sightengine.Value) bool {
		if key == noneLabel {
			return true
		}
		switch child.Kind() {
		case sightengine.KindNumber:
			total += child.Float()
		case sightengine.KindObject:
			total += SumProbabilities(child)
		}
		return true
	})
	return total
}
