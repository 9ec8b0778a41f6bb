// Package routes mounts the API endpoints onto the router, wiring the
// public surface and the admin-gated groups.
package routes

import (
	"github.com/themelissanyc/melissa/app/controllers"
	"github.com/themelissanyc/melissa/pkg/middleware"
	"github.com/themelissanyc/melissa/pkg/rbac"
	"github.com/themelissanyc/melissa/pkg/router"
)

// Deps carries everything route registration needs.
type Deps struct {
	Auth     *controllers.AuthController
	Units    *controllers.UnitController
	Contacts *controllers.ContactController
	Gallery  *controllers.GalleryController
	Users    middleware.UserSource
}

// RegisterAPI mounts all /api endpoints. Public reads stay open; every
// mutation sits behind authentication plus the admin role.
func RegisterAPI(r *router.Router, d Deps) {
	authed := middleware.Authenticate(d.Users)
	adminOnly := rbac.RequireRole(rbac.RoleAdmin)

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", d.Auth.Login)
	auth.Post("/register", d.Auth.Register)
	auth.Get("/verify", d.Auth.Verify, authed)

	units := api.Group("/units")
	units.Get("/public", d.Units.PublicIndex)
	units.Get("/public/{id}", d.Units.PublicShow)

	adminUnits := units.Group("", authed, adminOnly)
	adminUnits.Get("/", d.Units.Index)
	adminUnits.Get("/{id}", d.Units.Show)
	adminUnits.Post("/", d.Units.Create)
	adminUnits.Post("/upload-image", d.Units.UploadImage)
	adminUnits.Post("/upload-images", d.Units.UploadImages)
	adminUnits.Put("/{id}", d.Units.Update)
	adminUnits.Put("/{id}/images", d.Units.AddImages)
	adminUnits.Delete("/{id}", d.Units.Delete)
	adminUnits.Delete("/{id}/images/{imageIndex}", d.Units.RemoveImage)

	contacts := api.Group("/contacts")
	contacts.Post("/", d.Contacts.Create)

	adminContacts := contacts.Group("", authed, adminOnly)
	adminContacts.Get("/", d.Contacts.Index)
	adminContacts.Get("/{id}", d.Contacts.Show)
	adminContacts.Put("/{id}", d.Contacts.Update)
	adminContacts.Delete("/{id}", d.Contacts.Delete)

	gallery := api.Group("/gallery")
	gallery.Get("/public", d.Gallery.PublicIndex)

	adminGallery := gallery.Group("", authed, adminOnly)
	adminGallery.Get("/", d.Gallery.Index)
	adminGallery.Post("/upload", d.Gallery.Upload)
	adminGallery.Put("/{id}", d.Gallery.Update)
	adminGallery.Delete("/{id}", d.Gallery.Delete)
}
