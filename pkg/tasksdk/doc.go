// Package tasksdk is the Go client for the taskrail API.
//
// The client keeps the short-lived access token in memory and lets the
// long-lived refresh token live where the server put it: in an HttpOnly
// cookie, held by the http.Client's cookie jar. Application code never sees
// the refresh token.
//
//	client, err := tasksdk.NewClient("https://tasks.example.com")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	login, err := client.Login(ctx, "user@example.com", "hunter22")
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Printf("logged in as %s", login.User.Email)
//
//	page, err := client.ListTasks(ctx, tasksdk.ListTasksParams{Status: "PENDING"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// When the access token expires, any authenticated call that comes back 401
// triggers a silent refresh against POST /auth/refresh and retries the
// original request exactly once. Concurrent 401s share a single refresh
// round-trip. If the refresh itself fails the session is over and the caller
// gets the *APIError to act on, typically by prompting for a fresh login.
package tasksdk
