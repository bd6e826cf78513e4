package models

import (
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StationReading represents a single sample from an ATM41 weather station.
// Sensor values are kept as strings exactly as the stations report them;
// the API stores whatever it is given without validating ranges or formats.
type StationReading struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	DeviceName           string             `bson:"deviceName,omitempty" json:"deviceName,omitempty"`
	AtmosphericPressure  string             `bson:"atmosphericPressure,omitempty" json:"atmosphericPressure,omitempty"`
	Humidity             string             `bson:"humidity,omitempty" json:"humidity,omitempty"`
	LightningAvgDistance string             `bson:"lightningAvgDistance,omitempty" json:"lightningAvgDistance,omitempty"`
	LightningStrikeCount string             `bson:"lightningStrikeCount,omitempty" json:"lightningStrikeCount,omitempty"`
	MaxWind              string             `bson:"maxWind,omitempty" json:"maxWind,omitempty"`
	Rainfall             string             `bson:"rainfall,omitempty" json:"rainfall,omitempty"`
	SolarRadiation       string             `bson:"solarRadiation,omitempty" json:"solarRadiation,omitempty"`
	VapourPressure       string             `bson:"vapourPressure,omitempty" json:"vapourPressure,omitempty"`
	WindDirection        string             `bson:"windDirection,omitempty" json:"windDirection,omitempty"`
	WindSpeed            string             `bson:"windSpeed,omitempty" json:"windSpeed,omitempty"`
	Location             string             `bson:"location,omitempty" json:"location,omitempty"`
	TempC                string             `bson:"tempC,omitempty" json:"tempC,omitempty"`
	Time                 string             `bson:"time,omitempty" json:"time,omitempty"`

	// TempF is a stored, not virtual, derived field: it is only written by
	// the tempF update operation and goes stale if tempC changes afterwards.
	TempF string `bson:"tempF,omitempty" json:"tempF,omitempty"`
}

// FahrenheitFromCelsius converts a Celsius reading held as a decimal string
// into the Fahrenheit decimal string stored on the document. Non-numeric
// input is not rejected; it converts to "NaN" and is stored as-is, matching
// the permissiveness of the stored format.
func FahrenheitFromCelsius(tempC string) string {
	c, err := strconv.ParseFloat(strings.TrimSpace(tempC), 64)
	if err != nil {
		c = math.NaN()
	}

	f := c*1.8 + 32
	if math.IsNaN(f) {
		return "NaN"
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
