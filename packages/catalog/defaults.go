package catalog

var defaultSteps = []Step{
	{
		ID:               "root",
		Title:            "Root endpoint",
		Description:      "Checks that the API is reachable.",
		Method:           MethodGet,
		Endpoint:         "/",
		ExpectedBehavior: "200 with a welcome message.",
	},
	{
		ID:               "init-users-table",
		Title:            "Initialize users table",
		Description:      "Creates the users table if it does not exist.",
		Method:           MethodGet,
		Endpoint:         "/init-users-table",
		ExpectedBehavior: "200 confirming the table exists.",
	},
	{
		ID:               "post-user-valid",
		Title:            "Create user",
		Description:      "Creates a user with a complete payload.",
		Method:           MethodPost,
		Endpoint:         "/user",
		Body:             map[string]any{"name": "John Doe", "age": 25},
		ExpectedBehavior: "201 with the created user (id 1 on a fresh table).",
	},
	{
		ID:               "post-user-second",
		Title:            "Create second user",
		Description:      "Creates another user so deletion can be exercised.",
		Method:           MethodPost,
		Endpoint:         "/user",
		Body:             map[string]any{"name": "Jane Smith", "age": 30},
		ExpectedBehavior: "201 with the created user (id 2 on a fresh table).",
	},
	{
		ID:               "post-user-invalid",
		Title:            "Create user with missing age",
		Description:      "Sends an incomplete payload.",
		Method:           MethodPost,
		Endpoint:         "/user",
		Body:             map[string]any{"name": "Jane"},
		ExpectedBehavior: "400 validation error.",
	},
	{
		ID:               "get-all-users",
		Title:            "List users",
		Description:      "Fetches every user.",
		Method:           MethodGet,
		Endpoint:         "/users",
		ExpectedBehavior: "200 with the list of users.",
	},
	{
		ID:               "get-user-valid",
		Title:            "Get user by id",
		Description:      "Fetches the user created earlier.",
		Method:           MethodGet,
		Endpoint:         "/user/1",
		ExpectedBehavior: "200 with user 1.",
	},
	{
		ID:               "get-user-invalid",
		Title:            "Get missing user",
		Description:      "Fetches an id that does not exist.",
		Method:           MethodGet,
		Endpoint:         "/user/999",
		ExpectedBehavior: "404 not found error.",
	},
	{
		ID:               "get-user-non-numeric",
		Title:            "Get user with non-numeric id",
		Description:      "Fetches a malformed id.",
		Method:           MethodGet,
		Endpoint:         "/user/abc",
		ExpectedBehavior: "400 invalid id error.",
	},
	{
		ID:               "put-user-valid",
		Title:            "Update user",
		Description:      "Replaces user 1 with a complete payload.",
		Method:           MethodPut,
		Endpoint:         "/user/1",
		Body:             map[string]any{"name": "John Doe Updated", "age": 26},
		ExpectedBehavior: "200 with the updated user.",
	},
	{
		ID:               "put-user-invalid",
		Title:            "Update user with missing age",
		Description:      "Sends an incomplete update payload.",
		Method:           MethodPut,
		Endpoint:         "/user/1",
		Body:             map[string]any{"name": "John Doe"},
		ExpectedBehavior: "400 validation error.",
	},
	{
		ID:               "put-user-not-found",
		Title:            "Update missing user",
		Description:      "Updates an id that does not exist.",
		Method:           MethodPut,
		Endpoint:         "/user/999",
		Body:             map[string]any{"name": "Ghost", "age": 40},
		ExpectedBehavior: "404 not found error.",
	},
	{
		ID:               "delete-user-valid",
		Title:            "Delete user",
		Description:      "Deletes user 2.",
		Method:           MethodDelete,
		Endpoint:         "/user/2",
		ExpectedBehavior: "200 confirming deletion.",
	},
	{
		ID:               "delete-user-invalid",
		Title:            "Delete missing user",
		Description:      "Deletes an id that does not exist.",
		Method:           MethodDelete,
		Endpoint:         "/user/999",
		ExpectedBehavior: "404 not found error.",
	},
	{
		ID:               "delete-all-users",
		Title:            "Delete all users",
		Description:      "Removes every remaining user.",
		Method:           MethodDelete,
		Endpoint:         "/users/all",
		ExpectedBehavior: "200 with the number of deleted users.",
	},
	{
		ID:               "drop-users-table",
		Title:            "Drop users table",
		Description:      "Drops the users table so the next run starts clean.",
		Method:           MethodDelete,
		Endpoint:         "/drop-users-table",
		ExpectedBehavior: "200 confirming the table was dropped.",
	},
}

// Default returns the built-in users CRUD catalog
func Default() *Catalog {
	return MustNew(defaultSteps)
}
