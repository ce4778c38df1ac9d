package valueobjects

// CreditPackage is a fixed top-up offering. Packages are an enumerated
// product catalog, not database rows; prices are in whole KES.
type CreditPackage struct {
	Key     string
	Credits int
	Price   int64
}

var creditPackages = map[string]CreditPackage{
	"small":       {Key: "small", Credits: 5, Price: 100},
	"medium":      {Key: "medium", Credits: 15, Price: 250},
	"large":       {Key: "large", Credits: 30, Price: 450},
	"extra_large": {Key: "extra_large", Credits: 60, Price: 800},
}

// LookupCreditPackage resolves a package key. The bool is false for unknown
// keys.
func LookupCreditPackage(key string) (CreditPackage, bool) {
	pkg, ok := creditPackages[key]
	return pkg, ok
}

// CreditPackages returns the full catalog, for the packages listing endpoint.
func CreditPackages() []CreditPackage {
	return []CreditPackage{
		creditPackages["small"],
		creditPackages["medium"],
		creditPackages["large"],
		creditPackages["extra_large"],
	}
}
