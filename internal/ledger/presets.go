package ledger

// DefaultPresets are the built-in quick-add foods.
func DefaultPresets() []FavoriteFood {
	return []FavoriteFood{
		{Name: "Yogurt & Beef", Calories: 365, Protein: 48},
		{Name: "Mexican Toppings", Calories: 40, Protein: 2},
		{Name: "Protein Coffee", Calories: 130, Protein: 30},
		{Name: "Protein Bar", Calories: 190, Protein: 16},
		{Name: "Protein Shake", Calories: 200, Protein: 38},
		{Name: "Tortilla Soup 480g", Calories: 260, Protein: 22},
		{Name: "Eggs & Chicken", Calories: 640, Protein: 47},
		{Name: "Chobani Flip", Calories: 165, Protein: 9},
		{Name: "Cottage Cheese", Calories: 220, Protein: 25},
		{Name: "Dessert", Calories: 260, Protein: 4},
		{Name: "4 eggs", Calories: 280, Protein: 24},
		{Name: "Chicken Wrap", Calories: 460, Protein: 44},
		{Name: "Canned Chicken", Calories: 210, Protein: 46},
		{Name: "Ground Beef 4oz", Calories: 180, Protein: 25},
		{Name: "Yogurt 170g", Calories: 100, Protein: 19},
		{Name: "Chicken Meatballs", Calories: 160, Protein: 17},
	}
}
