package worldline

// Well-known Worldline Direct API hosts.
const (
	HostTest = "payment.preprod.direct.worldline-solutions.com"
	HostLive = "payment.direct.worldline-solutions.com"
)

// Config holds the connection parameters for one Worldline Direct
// environment. Immutable after construction; build one per configured
// gateway (test/live).
type Config struct {
	APIHost    string
	MerchantID string
	APIKey     string
	APISecret  string

	// Variant selects a specific hosted checkout template, empty for the
	// merchant default.
	Variant string

	// Optional templates for order references. "{payment_id}" is replaced
	// with the payment identifier.
	MerchantReferenceTemplate string
	DescriptorTemplate        string
}
