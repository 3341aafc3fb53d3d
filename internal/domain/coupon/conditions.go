package coupon

// A predicate owns one key of the conditions payload. Keys without a predicate are
// ignored, so payloads written for newer predicates still load.
type predicate struct {
	key   string
	check func(raw any, cart Cart) error
}

var predicates = []predicate{
	{key: "min_items", check: checkMinItems},
}

// checkConditions ANDs every predicate whose key is present. A stored value that is
// not an object cannot be read at all and fails as invalid conditions.
func checkConditions(conditions any, cart Cart) error {
	if conditions == nil {
		return nil
	}
	fields, ok := conditions.(map[string]any)
	if !ok {
		return ErrInvalidConditions
	}
	for _, p := range predicates {
		raw, ok := fields[p.key]
		if !ok {
			continue
		}
		if err := p.check(raw, cart); err != nil {
			return err
		}
	}
	return nil
}

func checkMinItems(raw any, cart Cart) error {
	var minItems *wholeNumber
	if err := decodePayload(raw, &minItems); err != nil {
		return ErrInvalidConditions
	}
	if minItems != nil && cart.TotalQuantity() < int(*minItems) {
		return ErrFewerItems
	}
	return nil
}
