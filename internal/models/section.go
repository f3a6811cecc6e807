package models

// Section identifies a top-level view of the shell
type Section string

const (
	SectionHome           Section = "home"
	SectionManageProjects Section = "manage-projects"
	SectionExpenses       Section = "expenses"
	SectionReports        Section = "reports"
	SectionInventory      Section = "inventory"
	SectionSettings       Section = "settings"
)

// MenuItem is one sidebar entry
type MenuItem struct {
	Section Section
	Label   string
	Icon    string
}

var menu = []MenuItem{
	{Section: SectionHome, Label: "Inicio", Icon: "🏠"},
	{Section: SectionManageProjects, Label: "Administrar Proyectos", Icon: "🌱"},
	{Section: SectionExpenses, Label: "Gastos", Icon: "💲"},
	{Section: SectionReports, Label: "Reportes", Icon: "📊"},
	{Section: SectionInventory, Label: "Inventario", Icon: "📄"},
	{Section: SectionSettings, Label: "Configuración", Icon: "⚙️"},
}

// Sections returns the sidebar menu in display order
func Sections() []MenuItem {
	out := make([]MenuItem, len(menu))
	copy(out, menu)
	return out
}

// ParseSection maps an identifier to a known section, falling back to home
func ParseSection(id string) Section {
	for _, item := range menu {
		if string(item.Section) == id {
			return item.Section
		}
	}
	return SectionHome
}

func (s Section) Label() string {
	for _, item := range menu {
		if item.Section == s {
			return item.Label
		}
	}
	return ""
}
