package models

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies scholarships by field of study.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(120);not null" json:"name"`
	Slug      string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

// Country is a destination country entry for the filter taxonomy.
type Country struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	ISOCode   string    `gorm:"type:varchar(3)" json:"iso_code,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

// CreateCategoryRequest is the payload of POST /categories.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCountryRequest is the payload of POST /countries.
type CreateCountryRequest struct {
	Name    string `json:"name" binding:"required"`
	ISOCode string `json:"iso_code"`
}

// CategoryDefinition is a seed entry of the fixed category catalog. Keywords
// feed the scrape collaborator's classification prompt.
type CategoryDefinition struct {
	Name     string
	Slug     string
	Keywords []string
}

// CategoryCatalog is the fixed set of categories the importer classifies
// scholarships into. SeedCategories inserts any slug missing from the table.
var CategoryCatalog = []CategoryDefinition{
	{Name: "Administración", Slug: "administracion", Keywords: []string{"administración", "gestión", "management", "recursos humanos"}},
	{Name: "Negocios y Finanzas", Slug: "negocios-finanzas", Keywords: []string{"negocios", "finanzas", "business", "comercio", "banca"}},
	{Name: "Economía", Slug: "economia", Keywords: []string{"economía", "economics", "desarrollo económico"}},
	{Name: "Agricultura", Slug: "agricultura", Keywords: []string{"agricultura", "agronomía", "desarrollo rural"}},
	{Name: "Medio Ambiente", Slug: "medio-ambiente", Keywords: []string{"medio ambiente", "ecología", "cambio climático", "recursos naturales"}},
	{Name: "Arquitectura y Construcción", Slug: "arquitectura-construccion", Keywords: []string{"arquitectura", "construcción", "urbanismo"}},
	{Name: "Arte y Cultura", Slug: "arte-cultura", Keywords: []string{"arte", "cultura", "cine", "teatro", "música"}},
	{Name: "Diseño", Slug: "diseno", Keywords: []string{"diseño", "design", "ux", "ui"}},
	{Name: "Ciencias Naturales", Slug: "ciencias-naturales", Keywords: []string{"biología", "química", "física", "ciencias naturales"}},
	{Name: "Geociencias", Slug: "geociencias", Keywords: []string{"geología", "geofísica", "meteorología", "oceanografía"}},
	{Name: "Ciencias Sociales", Slug: "ciencias-sociales", Keywords: []string{"ciencias sociales", "sociología", "antropología"}},
	{Name: "Psicología y Criminología", Slug: "psicologia-criminologia", Keywords: []string{"psicología", "criminología", "neurociencia"}},
	{Name: "Derecho", Slug: "derecho", Keywords: []string{"derecho", "leyes", "jurídico", "abogacía"}},
	{Name: "Derechos Humanos", Slug: "derechos-humanos", Keywords: []string{"derechos humanos", "justicia social"}},
	{Name: "Educación", Slug: "educacion", Keywords: []string{"educación", "pedagogía", "enseñanza"}},
	{Name: "Formación Docente", Slug: "formacion-docente", Keywords: []string{"formación docente", "profesorado", "didáctica"}},
	{Name: "Arqueología", Slug: "arqueologia", Keywords: []string{"arqueología", "prehistoria", "egiptología"}},
	{Name: "Estudios Orientales", Slug: "estudios-orientales", Keywords: []string{"estudios asiáticos", "japonés", "chino", "árabe"}},
	{Name: "Estudios Religiosos", Slug: "estudios-religiosos", Keywords: []string{"religión", "teología"}},
	{Name: "Historia", Slug: "historia", Keywords: []string{"historia", "historia del arte"}},
	{Name: "Humanidades", Slug: "humanidades", Keywords: []string{"humanidades", "filosofía", "literatura"}},
	{Name: "Idiomas y Traducción", Slug: "idiomas-traduccion", Keywords: []string{"idiomas", "traducción", "lingüística"}},
	{Name: "Comunicación y Periodismo", Slug: "comunicacion-periodismo", Keywords: []string{"comunicación", "periodismo", "medios"}},
	{Name: "Ingeniería", Slug: "ingenieria", Keywords: []string{"ingeniería", "mecánica", "eléctrica", "civil", "industrial"}},
	{Name: "Tecnología e Informática", Slug: "tecnologia-informatica", Keywords: []string{"tecnología", "informática", "software", "programación"}},
	{Name: "Energías Renovables", Slug: "energias-renovables", Keywords: []string{"energía renovable", "solar", "eólica"}},
	{Name: "Transporte y Logística", Slug: "transporte-logistica", Keywords: []string{"transporte", "logística", "supply chain"}},
	{Name: "Matemáticas", Slug: "matematicas", Keywords: []string{"matemáticas", "estadística", "cálculo"}},
	{Name: "Medicina", Slug: "medicina", Keywords: []string{"medicina", "cirugía", "farmacia", "enfermería"}},
	{Name: "Salud Pública", Slug: "salud-publica", Keywords: []string{"salud pública", "epidemiología"}},
	{Name: "Minería", Slug: "mineria", Keywords: []string{"minería", "metalurgia", "recursos minerales"}},
	{Name: "Políticas Públicas y Gobierno", Slug: "politicas-gobierno", Keywords: []string{"políticas públicas", "gobierno", "relaciones internacionales"}},
	{Name: "Turismo y Hospitalidad", Slug: "turismo-hospitalidad", Keywords: []string{"turismo", "hotelería", "gastronomía"}},
	{Name: "Multidisciplinario", Slug: "multidisciplinario", Keywords: []string{"todas las áreas", "cualquier área", "sin restricción"}},
}
