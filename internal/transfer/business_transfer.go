package transfer

type BusinessCreation struct {
	Name             string `json:"name" validate:"required,min=2,max=200"`
	Industry         string `json:"industry" validate:"required,max=100"`
	Description      string `json:"description" validate:"max=2000"`
	Website          string `json:"website" validate:"omitempty,url"`
	SubscriptionPlan string `json:"subscription_plan" validate:"omitempty,oneof=starter pro agency"`
}
