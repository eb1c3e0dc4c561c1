package amadeus

// skyteamNames maps the included carrier codes to display names.
var skyteamNames = map[string]string{
	"AR": "Aerolineas Argentinas",
	"AM": "Aeromexico",
	"UX": "Air Europa",
	"AF": "Air France",
	"CI": "China Airlines",
	"MU": "China Eastern Airlines",
	"OK": "Czech Airlines",
	"DL": "Delta Air Lines",
	"GA": "Garuda Indonesia",
	"AZ": "ITA Airways",
	"KQ": "Kenya Airways",
	"KL": "KLM Royal Dutch Airlines",
	"KE": "Korean Air",
	"ME": "Middle East Airlines",
	"SV": "Saudi Arabian Airlines",
	"SK": "SAS Scandinavian Airlines",
	"RO": "TAROM",
	"VN": "Vietnam Airlines",
	"VS": "Virgin Atlantic",
	"MF": "Xiamen Airlines",
}

// AirlineName returns the display name for a carrier code, falling back to
// the code itself for carriers outside the table.
func AirlineName(code string) string {
	if name, ok := skyteamNames[code]; ok {
		return name
	}
	return code
}
