package core

// Category tags what a transaction was for. The zero value means untagged.
type Category string

const (
	CategoryFuel             Category = "fuel"
	CategoryGrocery          Category = "grocery"
	CategoryShopping         Category = "shopping"
	CategorySalary           Category = "salary"
	CategoryVegetables       Category = "vegetables"
	CategoryInvestment       Category = "investment"
	CategoryInvestmentReturn Category = "investment_return"
	CategoryMedicine         Category = "medicine"
	CategoryEntertainment    Category = "entertainment"
	CategoryEMI              Category = "emi"
	CategoryCreditCardBill   Category = "credit_card_bill"
	CategoryInsurance        Category = "insurance"
	CategoryUtilities        Category = "utilities"
	CategoryRent             Category = "rent"
	CategoryEducation        Category = "education"
	CategoryTravel           Category = "travel"
	CategoryFoodDining       Category = "food_dining"
	CategoryHealthcare       Category = "healthcare"
	CategorySubscription     Category = "subscription"
	CategoryOthers           Category = "others"
)

// CategoryInfo describes a catalog entry for display.
type CategoryInfo struct {
	Value Category `json:"value"`
	Label string   `json:"label"`
	Color string   `json:"color"`
}

var catalog = []CategoryInfo{
	{CategoryFuel, "Fuel Expense", "#D926ED"},
	{CategoryGrocery, "Grocery", "#94BBE9"},
	{CategoryShopping, "Shopping", "#26EDEA"},
	{CategorySalary, "Salary Payment", "#ED26ED"},
	{CategoryVegetables, "Vegetables", "#7FFF00"},
	{CategoryInvestment, "Investment", "#F23350"},
	{CategoryInvestmentReturn, "Investment Return", "#2626ED"},
	{CategoryMedicine, "Medicine", "#FAE01B"},
	{CategoryEntertainment, "Entertainment", "#FF7F50"},
	{CategoryEMI, "EMI Payment", "#2C9BC7"},
	{CategoryCreditCardBill, "Credit Card Bill", "#F5A02A"},
	{CategoryInsurance, "Insurance Premium", "#7F1BC2"},
	{CategoryUtilities, "Utilities", "#D2691E"},
	{CategoryRent, "Rent Payment", "#A52A2A"},
	{CategoryEducation, "Education & Training", "#E9967A"},
	{CategoryTravel, "Travel & Transportation", "#8FBC8F"},
	{CategoryFoodDining, "Food & Dining", "#ADFF2F"},
	{CategoryHealthcare, "Healthcare & Medical", "#20B2AA"},
	{CategorySubscription, "Subscriptions & Memberships", "#800000"},
	{CategoryOthers, "Others", "#af25d1"},
}

var catalogIndex = func() map[Category]int {
	idx := make(map[Category]int, len(catalog))
	for i, c := range catalog {
		idx[c.Value] = i
	}
	return idx
}()

// Catalog returns the fixed category list in display order.
func Catalog() []CategoryInfo {
	return append([]CategoryInfo(nil), catalog...)
}

// Known reports whether c is a catalog value.
func (c Category) Known() bool {
	_, ok := catalogIndex[c]
	return ok
}

// Normalize keeps absent and known categories as they are and maps any
// other tag to Others.
func (c Category) Normalize() Category {
	if c == "" || c.Known() {
		return c
	}
	return CategoryOthers
}

// Info returns the catalog entry for c, falling back to Others.
func (c Category) Info() CategoryInfo {
	if i, ok := catalogIndex[c]; ok {
		return catalog[i]
	}
	return catalog[catalogIndex[CategoryOthers]]
}

// Label is the display name used by exports; untagged reads as "Others".
func (c Category) Label() string {
	return c.Info().Label
}
