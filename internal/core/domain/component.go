package domain

type Device struct {
	Id           string
	Name         string
	Version      string
	Model        string
	Manufacturer string
}

// DiscoveryConfig is the Home Assistant MQTT discovery payload of one
// measurement. It is built once at startup and never mutated.
type DiscoveryConfig struct {
	Name              string           `json:"name"`
	StateClass        string           `json:"state_class"`
	UniqueId          string           `json:"unique_id"`
	ObjectId          string           `json:"object_id"`
	UnitOfMeasurement string           `json:"unit_of_measurement"`
	DeviceClass       string           `json:"device_class"`
	StateTopic        string           `json:"state_topic"`
	Retain            bool             `json:"retain"`
	Device            *DiscoveryDevice `json:"device,omitempty"`
}

type DiscoveryDevice struct {
	Id           []string `json:"identifiers"`
	Name         string   `json:"name,omitempty"`
	Model        string   `json:"model,omitempty"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Version      string   `json:"sw_version,omitempty"`
}

// Measurement pairs a discovery config topic with its state topic.
type Measurement struct {
	Id          string
	ConfigTopic string
	StateTopic  string
	Discovery   DiscoveryConfig
}
