package badger

import "fmt"

// Key prefixes for the three document families. Merchant and document id
// are joined with 0x00 so a merchant name containing the separator of
// another merchant's prefix cannot alias keys.
const (
	productPrefix = "prdrec"
	entityPrefix  = "entrec"
	linkPrefix    = "lnkrec"

	keySep = "\x00"
)

// makeProductKey generates a key for a product document.
func makeProductKey(merchant, productID string) []byte {
	return []byte(fmt.Sprintf("%s%s%s%s%s", productPrefix, keySep, merchant, keySep, productID))
}

// makeProductScanPrefix generates the iteration prefix for a merchant's products.
func makeProductScanPrefix(merchant string) []byte {
	return []byte(fmt.Sprintf("%s%s%s%s", productPrefix, keySep, merchant, keySep))
}

// makeEntityKey generates a key for an entity document.
func makeEntityKey(merchant, slug string) []byte {
	return []byte(fmt.Sprintf("%s%s%s%s%s", entityPrefix, keySep, merchant, keySep, slug))
}

// makeEntityScanPrefix generates the iteration prefix for a merchant's entities.
func makeEntityScanPrefix(merchant string) []byte {
	return []byte(fmt.Sprintf("%s%s%s%s", entityPrefix, keySep, merchant, keySep))
}

// makeLinkKey generates a key for a product's link document.
func makeLinkKey(merchant, productID string) []byte {
	return []byte(fmt.Sprintf("%s%s%s%s%s", linkPrefix, keySep, merchant, keySep, productID))
}
