package seed

import "zajil/internal/domain/model"

type authorSeed struct {
	Name      string
	Biography string
}

type bookSeed struct {
	Name        string
	Author      int // demoAuthors の添字
	Description string
	Publisher   string
	Price       string
	Published   string
	Category    model.Category
	Stock       int64
}

var demoAuthors = []authorSeed{
	{"نجيب محفوظ", "كاتب مصري حائز على جائزة نوبل في الأدب عام 1988. من أشهر أعماله الثلاثية والحرافيش."},
	{"طه حسين", "كاتب ومفكر مصري، لقب بعميد الأدب العربي. من أشهر أعماله الأيام."},
	{"أحمد شوقي", "شاعر مصري، لقب بأمير الشعراء. من أشهر أعماله الشوقيات."},
	{"إبراهيم الكوني", "كاتب ليبي، من أشهر كتاب الرواية العربية المعاصرة. من أشهر أعماله التبر."},
	{"أحمد خالد توفيق", "كاتب مصري، من أشهر كتاب الرعب والخيال العلمي في العالم العربي."},
	{"محمد بن عبد الوهاب", "مصلح ديني سعودي، مؤسس الحركة الوهابية."},
	{"ابن خلدون", "مؤرخ وعالم اجتماع عربي، من أشهر أعماله مقدمة ابن خلدون."},
	{"ابن سينا", "طبيب وفيلسوف وعالم مسلم، من أشهر أعماله القانون في الطب."},
}

var demoBooks = []bookSeed{
	{"الحرافيش", 0, "رواية من أشهر أعمال نجيب محفوظ، تتناول قصة عائلة مصرية عبر ثلاثة أجيال.", "دار الشروق", "45.00", "1977-01-01", model.CategoryNovels, 15},
	{"الأيام", 1, "سيرة ذاتية للكاتب طه حسين، تتناول حياته منذ الطفولة حتى الشباب.", "دار المعارف", "35.00", "1929-01-01", model.CategoryLiterature, 20},
	{"الشوقيات", 2, "ديوان شعر من أشهر أعمال أمير الشعراء أحمد شوقي.", "دار الكتب المصرية", "40.00", "1898-01-01", model.CategoryLiterature, 12},
	{"التبر", 3, "رواية تتناول قصة البحث عن الذهب في الصحراء الليبية.", "دار الآداب", "50.00", "1990-01-01", model.CategoryNovels, 8},
	{"يوتوبيا", 4, "رواية خيال علمي تتناول مستقبل مصر في عام 2023.", "دار الشروق", "30.00", "2008-01-01", model.CategoryNovels, 25},
	{"كتاب التوحيد", 5, "كتاب في العقيدة الإسلامية يتناول موضوع التوحيد.", "دار السلام", "25.00", "1750-01-01", model.CategoryReligion, 30},
	{"مقدمة ابن خلدون", 6, "مقدمة في فلسفة التاريخ وعلم الاجتماع.", "دار الكتب العلمية", "60.00", "1377-01-01", model.CategoryPhilosophy, 10},
	{"القانون في الطب", 7, "موسوعة طبية شاملة من أشهر أعمال ابن سينا.", "دار المعارف", "80.00", "1025-01-01", model.CategoryScience, 5},
	{"تاريخ الطبري", 6, "تاريخ الأمم والملوك من أشهر كتب التاريخ الإسلامي.", "دار الكتب العلمية", "70.00", "0915-01-01", model.CategoryHistory, 7},
	{"المنقذ من الضلال", 7, "كتاب في الفلسفة والمنطق من أشهر أعمال ابن سينا.", "دار المعارف", "45.00", "1100-01-01", model.CategoryPhilosophy, 15},
	{"فتح الباري", 5, "شرح صحيح البخاري من أشهر شروح الحديث النبوي.", "دار السلام", "120.00", "1400-01-01", model.CategoryReligion, 3},
	{"تاريخ مصر الحديث", 1, "كتاب في تاريخ مصر الحديث من عهد محمد علي حتى الثورة.", "دار المعارف", "55.00", "1950-01-01", model.CategoryHistory, 18},
}
