package entity

// SDG is one of the 17 UN Sustainable Development Goals. The ID equals the goal number.
type SDG struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// SDGCount is the number of goals in the fixed reference list.
const SDGCount = 17

// SustainableDevelopmentGoals returns the reference list seeded into the database.
func SustainableDevelopmentGoals() []*SDG {
	return []*SDG{
		{ID: 1, Name: "No Poverty", Color: "#E5243B"},
		{ID: 2, Name: "Zero Hunger", Color: "#DDA63A"},
		{ID: 3, Name: "Good Health and Well-being", Color: "#4C9F38"},
		{ID: 4, Name: "Quality Education", Color: "#C5192D"},
		{ID: 5, Name: "Gender Equality", Color: "#FF3A21"},
		{ID: 6, Name: "Clean Water and Sanitation", Color: "#26BDE2"},
		{ID: 7, Name: "Affordable and Clean Energy", Color: "#FCC30B"},
		{ID: 8, Name: "Decent Work and Economic Growth", Color: "#A21942"},
		{ID: 9, Name: "Industry, Innovation and Infrastructure", Color: "#FD6925"},
		{ID: 10, Name: "Reduced Inequalities", Color: "#DD1367"},
		{ID: 11, Name: "Sustainable Cities and Communities", Color: "#FD9D24"},
		{ID: 12, Name: "Responsible Consumption and Production", Color: "#BF8B2E"},
		{ID: 13, Name: "Climate Action", Color: "#3F7E44"},
		{ID: 14, Name: "Life Below Water", Color: "#0A97D9"},
		{ID: 15, Name: "Life on Land", Color: "#56C02B"},
		{ID: 16, Name: "Peace, Justice and Strong Institutions", Color: "#00689D"},
		{ID: 17, Name: "Partnerships for the Goals", Color: "#19486A"},
	}
}
