package dto

type LoginInput struct {
	Email    string
	Password string
}

type RegisterInput struct {
	Email    string
	Password string
}

type AccountOutput struct {
	Email    string
	LoggedIn bool
}
