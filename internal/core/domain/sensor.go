package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_TEMPERATURE     = "new_dht_temperature"
	SENSOR_ID_HUMIDITY        = "new_dht_humidity"
	HA_DISCOVERY_PREFIX       = "homeassistant"
	SENSOR_TYPE_SENSOR        = "sensor"
	STATE_CLASS_MEASUREMENT   = "measurement"
	DEVICE_CLASS_TEMPERATURE  = "temperature"
	DEVICE_CLASS_HUMIDITY     = "humidity"
	UNIT_CELSIUS              = "°C"
	UNIT_PERCENT              = "%"
	DEVICE_MANUFACTURER       = "Aosong"
	DEVICE_MODEL_DESCRIPTION  = "%s temperature/humidity sensor"
	DEVICE_NAME_PREFIX        = "DHT"
	DEVICE_ID_PREFIX          = "dht2mqtt"
	MEASUREMENT_NAME_TEMP     = "DHT Temperature"
	MEASUREMENT_NAME_HUMIDITY = "DHT Humidity"
)

func SensorDevice(clientId string, kind SensorKind) Device {
	return Device{
		Id:           fmt.Sprintf("%s_%s", DEVICE_ID_PREFIX, md5HashShort(clientId)),
		Manufacturer: DEVICE_MANUFACTURER,
		Model:        fmt.Sprintf(DEVICE_MODEL_DESCRIPTION, kind),
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("%s %s", DEVICE_NAME_PREFIX, md5HashShort(clientId)),
	}
}

func TemperatureMeasurement(device Device) Measurement {
	return measurement(device, SENSOR_ID_TEMPERATURE, MEASUREMENT_NAME_TEMP, DEVICE_CLASS_TEMPERATURE, UNIT_CELSIUS)
}

func HumidityMeasurement(device Device) Measurement {
	return measurement(device, SENSOR_ID_HUMIDITY, MEASUREMENT_NAME_HUMIDITY, DEVICE_CLASS_HUMIDITY, UNIT_PERCENT)
}

func SensorConfigTopic(sensorId string) string {
	return fmt.Sprintf("%s/%s/%s/config", HA_DISCOVERY_PREFIX, SENSOR_TYPE_SENSOR, sensorId)
}

func SensorStateTopic(sensorId string) string {
	return fmt.Sprintf("%s/%s/%s/state", HA_DISCOVERY_PREFIX, SENSOR_TYPE_SENSOR, sensorId)
}

func measurement(device Device, id, name, deviceClass, unit string) Measurement {
	stateTopic := SensorStateTopic(id)
	return Measurement{
		Id:          id,
		ConfigTopic: SensorConfigTopic(id),
		StateTopic:  stateTopic,
		Discovery: DiscoveryConfig{
			Name:              name,
			StateClass:        STATE_CLASS_MEASUREMENT,
			UniqueId:          id,
			ObjectId:          id,
			UnitOfMeasurement: unit,
			DeviceClass:       deviceClass,
			StateTopic:        stateTopic,
			Retain:            true,
			Device: &DiscoveryDevice{
				Id:           []string{device.Id},
				Name:         device.Name,
				Model:        device.Model,
				Manufacturer: device.Manufacturer,
				Version:      device.Version,
			},
		},
	}
}

func md5HashShort(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])[:8]
}
