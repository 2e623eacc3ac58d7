package domain

type Army struct {
	Name        string `json:"name"`
	Faction     string `json:"faction"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Description string `json:"description,omitempty"`
}

// DefaultArmies is the army catalog offered when creating players and
// recording battles. Custom armies are free-text on top of this list.
var DefaultArmies = []Army{
	{Name: "Space Marines", Faction: "Imperium", Color: "#1e40af", Icon: "⚔", Description: "The Emperor's finest warriors"},
	{Name: "Black Templars", Faction: "Imperium", Color: "#000000", Icon: "✠", Description: "Crusading zealots"},
	{Name: "Blood Angels", Faction: "Imperium", Color: "#dc2626", Icon: "🩸", Description: "Sons of Sanguinius"},
	{Name: "Dark Angels", Faction: "Imperium", Color: "#059669", Icon: "⚔", Description: "The First Legion"},
	{Name: "Space Wolves", Faction: "Imperium", Color: "#6b7280", Icon: "🐺", Description: "The Emperor's Executioners"},
	{Name: "Imperial Guard", Faction: "Imperium", Color: "#a3a3a3", Icon: "🎖", Description: "Hammer of the Emperor"},
	{Name: "Adeptus Mechanicus", Faction: "Imperium", Color: "#ef4444", Icon: "⚙", Description: "Quest for knowledge"},
	{Name: "Imperial Knights", Faction: "Imperium", Color: "#fbbf24", Icon: "🏰", Description: "Noble houses"},
	{Name: "Sisters of Battle", Faction: "Imperium", Color: "#7c2d12", Icon: "✠", Description: "Adepta Sororitas"},
	{Name: "Chaos Space Marines", Faction: "Chaos", Color: "#7c2d12", Icon: "☠", Description: "Traitor legions"},
	{Name: "Death Guard", Faction: "Chaos", Color: "#65a30d", Icon: "☣", Description: "Nurgle's chosen"},
	{Name: "Thousand Sons", Faction: "Chaos", Color: "#2563eb", Icon: "◉", Description: "Tzeentch's sorcerers"},
	{Name: "World Eaters", Faction: "Chaos", Color: "#dc2626", Icon: "⚡", Description: "Khorne's berserkers"},
	{Name: "Chaos Knights", Faction: "Chaos", Color: "#7c2d12", Icon: "🏰", Description: "Fallen houses"},
	{Name: "Chaos Daemons", Faction: "Chaos", Color: "#a21caf", Icon: "👹", Description: "Warp entities"},
	{Name: "Tyranids", Faction: "Xenos", Color: "#7c3aed", Icon: "🦎", Description: "Great Devourer"},
	{Name: "Orks", Faction: "Xenos", Color: "#16a34a", Icon: "⚡", Description: "WAAAGH!"},
	{Name: "Necrons", Faction: "Xenos", Color: "#374151", Icon: "⚱", Description: "Ancient machines"},
	{Name: "Tau Empire", Faction: "Xenos", Color: "#0ea5e9", Icon: "🎯", Description: "For the Greater Good"},
	{Name: "Genestealer Cults", Faction: "Xenos", Color: "#a855f7", Icon: "⬡", Description: "Hidden corruption"},
	{Name: "Aeldari", Faction: "Aeldari", Color: "#0891b2", Icon: "◊", Description: "Craftworld Eldar"},
	{Name: "Drukhari", Faction: "Aeldari", Color: "#1f2937", Icon: "🗡", Description: "Dark Eldar"},
}
