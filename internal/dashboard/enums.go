package dashboard

// Stations are the monitoring stations the UI offers. The pipeline treats
// station ids as opaque; membership is not enforced there.
var Stations = []string{
	"RFBRC", "RFSMM", "RFSPV", "RFNSA", "RFNST",
	"RFGLS", "RFSKM", "RFGLR", "ASEC2",
}

// Variables are the environmental variables the UI offers.
var Variables = []string{
	"air_temp",
	"dew_point_temperature",
	"relative_humidity",
	"soil_temp",
	"precip_accum",
	"soil_moisture",
	"wind_speed",
	"wind_direction",
	"solar_radiation",
	"snow_depth",
	"snow_water_equiv",
}
