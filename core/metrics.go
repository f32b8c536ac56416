package core

// Cache quantity labels reported to MetricsRecorder.ObserveCacheLookup.
const (
	QuantityBounds    = "bounds"
	QuantityReference = "reference"
	QuantityMotors    = "motors"
)

// MetricsRecorder receives engine activity. Implementations must be cheap;
// they are called on every cached read.
type MetricsRecorder interface {
	ObserveEnumeration(instances int)
	ObserveCacheLookup(quantity string, hit bool)
	SetConfigurationCount(n int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveEnumeration(int)          {}
func (noopMetrics) ObserveCacheLookup(string, bool) {}
func (noopMetrics) SetConfigurationCount(int)       {}
