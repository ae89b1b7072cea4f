// Package web provides the HTTP server for the design tips API
package web

/*

	### **Files:**
	1. **`webserver_core_routes.go`** - Server setup, middleware and route configuration (incl. ping and 404)
	2. **`web_homePage.go`** - Root route with the welcome string
	3. **`web_apiHandlers.go`** - JSON endpoints: design tips and stats

*/
