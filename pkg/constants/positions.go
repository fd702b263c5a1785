package constants

// Должности в кадровых заявках.
var HRPositions = []string{
	"brygadzista",
	"brygada_elektrykow",
	"brygada_monterow",
	"elektromonter",
	"kafar",
	"koparka",
	"mini_ladowarka",
	"monter",
	"starszy_elektryk",
	"starszy_monter",
	"miernica",
}

// Требуемый опыт для должности.
// HRExperienceNone - значение по умолчанию, если опыт не указан.
const HRExperienceNone = "brak"

var HRExperience = []string{"konstrukcja", "panele", "elektryka", "operator", HRExperienceNone}

var HRPositionLabels = map[string]string{
	"brygadzista":        "Brygadzista",
	"brygada_elektrykow": "Brygada elektryków",
	"brygada_monterow":   "Brygada monterów",
	"elektromonter":      "Elektromonter",
	"kafar":              "Kafar",
	"koparka":            "Koparka",
	"mini_ladowarka":     "Mini ładowarka",
	"monter":             "Monter",
	"starszy_elektryk":   "Starszy elektryk",
	"starszy_monter":     "Starszy monter",
	"miernica":           "Miernica",
}
