package domain

// ComputeDurability derives the 0-100 durability for a slot. It returns nil
// when the metadata carries no durability (or a zero one). Values above 100
// with a degrade rate are expiry timestamps in seconds and decay linearly
// over degrade minutes.
func ComputeDurability(metadata Metadata, nowSeconds int64) *float64 {
	durability, ok := metadata.Number(MetaDurability)
	if !ok || durability == 0 {
		return nil
	}

	if degrade, ok := metadata.Number(MetaDegrade); ok && durability > 100 && degrade != 0 {
		durability = (durability - float64(nowSeconds)) / (60 * degrade) * 100
	}

	if durability < 0 {
		durability = 0
	}
	return &durability
}
