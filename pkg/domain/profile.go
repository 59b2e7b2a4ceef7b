package domain

// Profile accumulates what the user told the bot during one conversation.
// Fields are filled strictly in declaration order.
type Profile struct {
	Name            string `json:"name,omitempty" mapstructure:"name"`
	ShoppingItem    string `json:"shopping_item,omitempty" mapstructure:"shopping_item"`
	ShoppingProduct string `json:"shopping_product,omitempty" mapstructure:"shopping_product"`
	ShoppingMall    string `json:"shopping_mall,omitempty" mapstructure:"shopping_mall"`
}
