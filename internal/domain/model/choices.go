package model

import "encoding/json"

// Choice は [code, 表示名] のペア
type Choice struct {
	Code    string
	Display string
}

// JSONでは ["01","Adrar"] の形で返す
func (c Choice) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{c.Code, c.Display})
}

type Category string

const (
	CategoryNovels     Category = "روايات"
	CategoryHistory    Category = "تاريخ"
	CategoryScience    Category = "علوم"
	CategoryPhilosophy Category = "فلسفة"
	CategoryLiterature Category = "أدب"
	CategoryReligion   Category = "دين"
)

var Categories = []Choice{
	{string(CategoryNovels), string(CategoryNovels)},
	{string(CategoryHistory), string(CategoryHistory)},
	{string(CategoryScience), string(CategoryScience)},
	{string(CategoryPhilosophy), string(CategoryPhilosophy)},
	{string(CategoryLiterature), string(CategoryLiterature)},
	{string(CategoryReligion), string(CategoryReligion)},
}

func (c Category) Valid() bool {
	return hasCode(Categories, string(c))
}

var OrderStatuses = []Choice{
	{string(OrderStatusPending), "Pending"},
	{string(OrderStatusProcessing), "Processing"},
	{string(OrderStatusCompleted), "Completed"},
	{string(OrderStatusCanceled), "Canceled"},
}

// アルジェリアの58州
var Wilayas = []Choice{
	{"01", "Adrar"}, {"02", "Chlef"}, {"03", "Laghouat"}, {"04", "Oum El Bouaghi"},
	{"05", "Batna"}, {"06", "Béjaïa"}, {"07", "Biskra"}, {"08", "Béchar"},
	{"09", "Blida"}, {"10", "Bouira"}, {"11", "Tamanrasset"}, {"12", "Tébessa"},
	{"13", "Tlemcen"}, {"14", "Tiaret"}, {"15", "Tizi Ouzou"}, {"16", "Alger"},
	{"17", "Djelfa"}, {"18", "Jijel"}, {"19", "Sétif"}, {"20", "Saïda"},
	{"21", "Skikda"}, {"22", "Sidi Bel Abbès"}, {"23", "Annaba"}, {"24", "Guelma"},
	{"25", "Constantine"}, {"26", "Médéa"}, {"27", "Mostaganem"}, {"28", "M'Sila"},
	{"29", "Mascara"}, {"30", "Ouargla"}, {"31", "Oran"}, {"32", "El Bayadh"},
	{"33", "Illizi"}, {"34", "Bordj Bou Arréridj"}, {"35", "Boumerdès"}, {"36", "El Tarf"},
	{"37", "Tindouf"}, {"38", "Tissemsilt"}, {"39", "El Oued"}, {"40", "Khenchela"},
	{"41", "Souk Ahras"}, {"42", "Tipaza"}, {"43", "Mila"}, {"44", "Aïn Defla"},
	{"45", "Naâma"}, {"46", "Aïn Témouchent"}, {"47", "Ghardaïa"}, {"48", "Relizane"},
	{"49", "El M'Ghair"}, {"50", "El Meniaa"}, {"51", "Ouled Djellal"}, {"52", "Bordj Baji Mokhtar"},
	{"53", "Béni Abbès"}, {"54", "Timimoun"}, {"55", "Touggourt"}, {"56", "Djanet"},
	{"57", "Aïn Salah"}, {"58", "Aïn Guezzam"},
}

func IsWilaya(code string) bool {
	return hasCode(Wilayas, code)
}

// WilayaName はコードの表示名。不明ならコードをそのまま返す
func WilayaName(code string) string {
	for _, c := range Wilayas {
		if c.Code == code {
			return c.Display
		}
	}
	return code
}

func hasCode(list []Choice, code string) bool {
	for _, c := range list {
		if c.Code == code {
			return true
		}
	}
	return false
}
