package web

import "net/http"

func registerRoutes(mux *http.ServeMux) {
	// Public content; writes are permission-checked inside the handlers.
	mux.HandleFunc("/api/gallery", handleGallery)
	mux.HandleFunc("/api/videos", handleVideos)
	mux.HandleFunc("/api/uniforms", handleUniforms)
	mux.HandleFunc("/api/hierarchy", handleHierarchy)
	mux.HandleFunc("/api/lives", handleLives)

	// Auth
	mux.HandleFunc("/api/auth/login", handleLogin)
	mux.HandleFunc("/api/auth/register", handleRegister)
	mux.HandleFunc("/api/auth/logout", handleLogout)
	mux.HandleFunc("/api/auth/me", handleMe)
	mux.HandleFunc("/api/auth/password", handlePassword)
	mux.HandleFunc("/api/auth/csrf", handleCSRFToken)

	// Admin
	mux.HandleFunc("/api/admin/users", handleAdminUsers)
	mux.HandleFunc("/api/admin/dashboard", handleAdminDashboard)
	mux.HandleFunc("/api/admin/perf", handleAdminPerf)
	mux.HandleFunc("/api/admin/impersonate", handleImpersonate)
}
