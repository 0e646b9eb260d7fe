package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"CAMERA_NOT_REGISTERED"`
	Message string `json:"message" example:"Camera has no frame source registered"`
}

type HealthResponse struct {
	Status          string `json:"status" example:"ok"`
	Version         string `json:"version,omitempty" example:"0.1.0"`
	RunningSessions int    `json:"running_sessions,omitempty" example:"2"`
}

type LoginResponse struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt string `json:"expires_at" example:"2024-05-01T22:00:00Z"`
	User      User   `json:"user"`
}

type User struct {
	ID    int    `json:"id" example:"7"`
	Name  string `json:"name" example:"Ana Operadora"`
	Email string `json:"email" example:"ana@facefind.org"`
	Role  string `json:"role" example:"operator"`
}

type BoundingBox struct {
	X      float64 `json:"x" example:"100"`
	Y      float64 `json:"y" example:"50"`
	Width  float64 `json:"width" example:"60"`
	Height float64 `json:"height" example:"80"`
}

type FaceResult struct {
	FaceID     int         `json:"face_id" example:"1"`
	MatchName  string      `json:"match_name,omitempty" example:"Ana Torres"`
	MatchFound bool        `json:"match_found" example:"true"`
	Similarity float64     `json:"similarity" example:"0.87"`
	Box        BoundingBox `json:"bbox"`
}

type Size struct {
	Width  int `json:"width" example:"640"`
	Height int `json:"height" example:"480"`
}

type RecognitionResponse struct {
	CameraID        string       `json:"camera_id" example:"3"`
	State           string       `json:"state" example:"running"`
	IntervalSeconds float64      `json:"interval_seconds" example:"3"`
	Pending         bool         `json:"pending" example:"false"`
	LastTick        string       `json:"last_tick,omitempty" example:"2024-05-01T10:00:00Z"`
	Results         []FaceResult `json:"results"`
	OverlaySize     Size         `json:"overlay_size"`
}

type CaptureResponse struct {
	Outcome     string              `json:"outcome" example:"faces"`
	Error       string              `json:"error,omitempty" example:""`
	Recognition RecognitionResponse `json:"recognition"`
}

type Camera struct {
	ID          int                  `json:"id" example:"3"`
	Name        string               `json:"name" example:"Terminal Norte"`
	Location    string               `json:"location,omitempty" example:"Anden 2"`
	SnapshotURL string               `json:"snapshot_url,omitempty" example:"http://10.0.0.12/snapshot.jpg"`
	Active      bool                 `json:"active" example:"true"`
	Recognition *RecognitionResponse `json:"recognition,omitempty"`
}

type CamerasResponse struct {
	Cameras []Camera `json:"cameras"`
}

type Sighting struct {
	ID         string      `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	CameraID   string      `json:"camera_id" example:"3"`
	FaceID     int         `json:"face_id" example:"1"`
	PersonName string      `json:"person_name" example:"Ana Torres"`
	Similarity float64     `json:"similarity" example:"0.87"`
	Box        BoundingBox `json:"bbox"`
	CapturedAt string      `json:"captured_at" example:"2024-05-01T10:00:00Z"`
}

type SightingsResponse struct {
	Sightings   []Sighting `json:"sightings"`
	Persistence bool       `json:"persistence" example:"true"`
}

type Case struct {
	ID         int    `json:"id" example:"12"`
	PersonName string `json:"person_name" example:"Ana Torres"`
	Age        int    `json:"age,omitempty" example:"17"`
	Status     string `json:"status" example:"active"`
	PhotoURL   string `json:"photo_url,omitempty" example:"https://facefind.org/uploads/12.jpg"`
}

type CasesResponse struct {
	Cases []Case `json:"cases"`
}

type Alert struct {
	ID         int         `json:"id" example:"40"`
	CameraID   string      `json:"camera_id" example:"3"`
	PersonName string      `json:"person_name" example:"Ana Torres"`
	Similarity float64     `json:"similarity" example:"0.87"`
	Box        BoundingBox `json:"bbox"`
	Status     string      `json:"status" example:"pending"`
	DetectedAt string      `json:"detected_at" example:"2024-05-01T10:00:00Z"`
}

type AlertsResponse struct {
	Alerts []Alert `json:"alerts"`
}

type SightingStatsResponse struct {
	Window      string `json:"window" example:"24h0m0s"`
	Since       string `json:"since" example:"2024-04-30T10:00:00Z"`
	Count       int64  `json:"count" example:"14"`
	Persistence bool   `json:"persistence" example:"true"`
}

type Notification struct {
	ID        int    `json:"id" example:"3"`
	UserID    int    `json:"user_id" example:"7"`
	Title     string `json:"title" example:"Coincidencia en Terminal Norte"`
	Message   string `json:"message" example:"Ana Torres (87%)"`
	Read      bool   `json:"read" example:"false"`
	CreatedAt string `json:"created_at" example:"2024-05-01T10:00:00Z"`
}

type NotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}

type AdminCameraResponse struct {
	Camera
	Registered bool `json:"registered" example:"true"`
}

type UsersResponse struct {
	Users []User `json:"users"`
}

type EmptyResponse struct{}

var (
	errUnauthorized  = response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing session token"}, "401", "Unauthorized")
	errRateLimit     = response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded, please try again later"}, "429", "Too Many Requests")
	errNotRegistered = response.New(ErrorResponse{Code: "CAMERA_NOT_REGISTERED", Message: "Camera has no frame source registered"}, "409", "Conflict")
	errBackend       = response.New(ErrorResponse{Code: "BACKEND_UNAVAILABLE", Message: "FaceFind backend is unavailable"}, "502", "Bad Gateway")
	errInternal      = response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error")

	errForbidden     = response.New(ErrorResponse{Code: "FORBIDDEN", Message: "Access denied"}, "403", "Forbidden")
	errValidation    = response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity")

	bearer = []map[string][]string{{"BearerAuth": {}}}
)

func cameraIDParam() *parameter.Parameter {
	return parameter.StrParam("id", parameter.Path, parameter.WithDescription("Camera identifier"))
}

func idParam(description string) *parameter.Parameter {
	return parameter.IntParam("id", parameter.Path, parameter.WithDescription(description))
}

// adminEndpoints are only reachable with an admin session
func adminEndpoints() []*endpoint.EndPoint {
	cameraNotFound := response.New(ErrorResponse{Code: "CAMERA_NOT_FOUND", Message: "Camera not found"}, "404", "Not Found")
	caseNotFound := response.New(ErrorResponse{Code: "CASE_NOT_FOUND", Message: "Case not found"}, "404", "Not Found")

	return []*endpoint.EndPoint{
		endpoint.New(
			endpoint.POST,
			"/admin/cases",
			endpoint.WithTags("Admin"),
			endpoint.WithSummary("Create a case"),
			endpoint.WithDescription("Body {\"person_name\",\"age\",\"description\",\"last_location\",\"photo_url\",\"status\"}; status accepts English or Spanish spellings"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(Case{}, "201", "Case created"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errForbidden, errValidation, errBackend}),
			endpoint.WithSecurity(bearer),
		),
		endpoint.New(
			endpoint.PUT,
			"/admin/cases/{id}",
			endpoint.WithTags("Admin"),
			endpoint.WithSummary("Update a case"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(idParam("Case identifier")),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(Case{}, "200", "Case updated"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errForbidden, caseNotFound, errValidation, errBackend}),
			endpoint.WithSecurity(bearer),
		),
		endpoint.New(
			endpoint.DELETE,
			"/admin/cases/{id}",
			endpoint.WithTags("Admin"),
			endpoint.WithSummary("Delete a case"),
			endpoint.WithParams(idParam("Case identifier")),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Case deleted"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errForbidden, caseNotFound, errBackend}),
			endpoint.WithSecurity(bearer),
		),
		endpoint.New(
			endpoint.GET,
			"/admin/cameras/{id}",
			endpoint.WithTags("Admin"),
			endpoint.WithSummary("Get a camera"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(idParam("Backend camera identifier")),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(Camera{}, "200", "Camera found"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errForbidden, cameraNotFound, errBackend}),
			endpoint.WithSecurity(bearer),
		),
		endpoint.New(
			endpoint.POST,
			"/admin/cameras",
			endpoint.WithTags("Admin"),
			endpoint.WithSummary("Create a camera"),
			endpoint.WithDescription("Body {\"name\",\"location\",\"latitude\",\"longitude\",\"snapshot_url\",\"active\"}. Active cameras with a snapshot URL get a recognition session right away."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AdminCameraResponse{}, "201", "Camera created"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errForbidden, errValidation, errBackend}),
			endpoint.WithSecurity(bearer),
		),
		endpoint.New(
			endpoint.PUT,
			"/admin/cameras/{id}",
			endpoint.WithTags("Admin"),
			endpoint.WithSummary("Update a camera"),
			endpoint.WithDescription("Re-registers the recognition session with the new settings; a running session stops"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(idParam("Backend camera identifier")),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AdminCameraResponse{}, "200", "Camera updated"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errForbidden, cameraNotFound, errValidation, errBackend}),
			endpoint.WithSecurity(bearer),
		),
		endpoint.New(
			endpoint.DELETE,
			"/admin/cameras/{id}",
			endpoint.WithTags("Admin"),
			endpoint.WithSummary("Delete a camera"),
			endpoint.WithDescription("Also stops and removes its recognition session"),
			endpoint.WithParams(idParam("Backend camera identifier")),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Camera deleted"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errForbidden, cameraNotFound, errBackend}),
			endpoint.WithSecurity(bearer),
		),
		endpoint.New(
			endpoint.GET,
			"/admin/users",
			endpoint.WithTags("Admin"),
			endpoint.WithSummary("List users"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(UsersResponse{}, "200", "Users listed"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errForbidden, errBackend}),
			endpoint.WithSecurity(bearer),
		),
		endpoint.New(
			endpoint.POST,
			"/admin/users",
			endpoint.WithTags("Admin"),
			endpoint.WithSummary("Create a user"),
			endpoint.WithDescription("Body {\"name\",\"email\",\"password\",\"role\"}; role is admin or operator (default), password at least 8 characters"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(User{}, "201", "User created"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errForbidden, errValidation, errBackend}),
			endpoint.WithSecurity(bearer),
		),
		endpoint.New(
			endpoint.DELETE,
			"/admin/users/{id}",
			endpoint.WithTags("Admin"),
			endpoint.WithSummary("Delete a user"),
			endpoint.WithDescription("An admin cannot delete their own account"),
			endpoint.WithParams(idParam("User identifier")),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "User deleted"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errForbidden, errValidation, errBackend}),
			endpoint.WithSecurity(bearer),
		),
		endpoint.New(
			endpoint.GET,
			"/admin/reports/export",
			endpoint.WithTags("Admin"),
			endpoint.WithSummary("Export a report"),
			endpoint.WithDescription("Downloads the backend report as an attachment"),
			endpoint.WithProduce([]mime.MIME{
				mime.MIME("text/csv"),
				mime.MIME("application/pdf"),
				mime.MIME("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"),
			}),
			endpoint.WithParams(
				parameter.StrParam("format", parameter.Query, parameter.WithDescription("csv (default), pdf or xlsx")),
			),
			endpoint.WithErrors([]response.Response{errUnauthorized, errForbidden, errValidation, errBackend}),
			endpoint.WithSecurity(bearer),
		),
	}
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "FaceFind Recognition Gateway",
		Version:     "v1.0.0",
		Description: "Polls camera feeds, sends frames to the FaceFind face-matching backend and draws matches over each camera view",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		endpoint.New(
			endpoint.POST,
			"/auth/login",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Log in an operator"),
			endpoint.WithDescription("Checks {\"email\",\"password\"} against the FaceFind backend and returns a local session token"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LoginResponse{}, "200", "Logged in"),
			}),
			endpoint.WithErrors([]response.Response{
				errValidation,
				response.New(ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"}, "401", "Unauthorized"),
				errBackend,
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/cameras",
			endpoint.WithTags("Cameras"),
			endpoint.WithSummary("List cameras"),
			endpoint.WithDescription("Cameras registered in the backend, with the local recognition state of each one that has a frame source"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CamerasResponse{}, "200", "Cameras listed"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errRateLimit, errBackend}),
			endpoint.WithSecurity(bearer),
		),

		endpoint.New(
			endpoint.POST,
			"/cameras/{id}/recognition/start",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Start continuous recognition"),
			endpoint.WithDescription("Runs one capture immediately and then one every interval_seconds (body {\"interval_seconds\": 3}, 1-3600, optional). Starting a running camera is a no-op."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(cameraIDParam()),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RecognitionResponse{}, "200", "Recognition running"),
			}),
			endpoint.WithErrors([]response.Response{
				errUnauthorized,
				errNotRegistered,
				response.New(ErrorResponse{Code: "SOURCE_DISCONNECTED", Message: "Camera source is not connected"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INVALID_INTERVAL", Message: "Interval must be between 1 and 3600 seconds"}, "422", "Unprocessable Entity"),
			}),
			endpoint.WithSecurity(bearer),
		),

		endpoint.New(
			endpoint.POST,
			"/cameras/{id}/recognition/stop",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Stop recognition"),
			endpoint.WithDescription("Stops the repetition and clears results and overlay. Stopping an inactive camera is a no-op."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(cameraIDParam()),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RecognitionResponse{}, "200", "Recognition stopped"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errNotRegistered}),
			endpoint.WithSecurity(bearer),
		),

		endpoint.New(
			endpoint.POST,
			"/cameras/{id}/recognition/capture",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Capture and recognize once"),
			endpoint.WithDescription("Single manual shot. Skipped while another request for the camera is pending."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(cameraIDParam()),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CaptureResponse{}, "200", "Capture finished"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errNotRegistered, errRateLimit}),
			endpoint.WithSecurity(bearer),
		),

		endpoint.New(
			endpoint.GET,
			"/cameras/{id}/recognition",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Get recognition state"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(cameraIDParam()),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RecognitionResponse{}, "200", "Current state and results"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errNotRegistered}),
			endpoint.WithSecurity(bearer),
		),

		endpoint.New(
			endpoint.GET,
			"/cameras/{id}/overlay.png",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Render the overlay"),
			endpoint.WithDescription("Transparent PNG at the displayed size with the current bounding boxes and labels"),
			endpoint.WithProduce([]mime.MIME{mime.MIME("image/png")}),
			endpoint.WithParams(cameraIDParam()),
			endpoint.WithErrors([]response.Response{errUnauthorized, errNotRegistered, errInternal}),
			endpoint.WithSecurity(bearer),
		),

		endpoint.New(
			endpoint.GET,
			"/cameras/{id}/sightings",
			endpoint.WithTags("Sightings"),
			endpoint.WithSummary("List recent sightings"),
			endpoint.WithDescription("Matched faces persisted for the camera, newest first. Empty when persistence is disabled."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				cameraIDParam(),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Maximum results (default: 50, max: 500)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SightingsResponse{}, "200", "Sightings listed"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errInternal}),
			endpoint.WithSecurity(bearer),
		),

		endpoint.New(
			endpoint.GET,
			"/sightings/stats",
			endpoint.WithTags("Sightings"),
			endpoint.WithSummary("Count recent sightings"),
			endpoint.WithDescription("Sightings of all cameras captured within the window. Zero when persistence is disabled."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("window", parameter.Query, parameter.WithDescription("Go duration, e.g. 90m or 24h (default: 24h, max: 8760h)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SightingStatsResponse{}, "200", "Sightings counted"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errValidation, errInternal}),
			endpoint.WithSecurity(bearer),
		),

		endpoint.New(
			endpoint.GET,
			"/notifications",
			endpoint.WithTags("Notifications"),
			endpoint.WithSummary("List notifications"),
			endpoint.WithDescription("Operators see their own notifications and broadcasts; admins see all"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("unread", parameter.Query, parameter.WithDescription("true lists only unread notifications")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(NotificationsResponse{}, "200", "Notifications listed"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errBackend}),
			endpoint.WithSecurity(bearer),
		),

		endpoint.New(
			endpoint.POST,
			"/notifications/{id}/read",
			endpoint.WithTags("Notifications"),
			endpoint.WithSummary("Mark a notification read"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(idParam("Notification identifier")),
			endpoint.WithErrors([]response.Response{errUnauthorized, errBackend}),
			endpoint.WithSecurity(bearer),
		),

		endpoint.New(
			endpoint.GET,
			"/cases",
			endpoint.WithTags("Cases"),
			endpoint.WithSummary("List missing-person cases"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("status", parameter.Query, parameter.WithDescription("active, found or closed (Spanish spellings accepted)")),
				parameter.StrParam("q", parameter.Query, parameter.WithDescription("Free text search")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CasesResponse{}, "200", "Cases listed"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errBackend}),
			endpoint.WithSecurity(bearer),
		),

		endpoint.New(
			endpoint.GET,
			"/alerts",
			endpoint.WithTags("Alerts"),
			endpoint.WithSummary("List alerts"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("status", parameter.Query, parameter.WithDescription("pending, acknowledged or dismissed")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AlertsResponse{}, "200", "Alerts listed"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errBackend}),
			endpoint.WithSecurity(bearer),
		),

		endpoint.New(
			endpoint.GET,
			"/ws",
			endpoint.WithTags("Events"),
			endpoint.WithSummary("Recognition event stream"),
			endpoint.WithDescription("WebSocket. ?camera=<id> subscribes to one camera (default all). Events: recognition.started, recognition.stopped, faces.detected, faces.cleared, match.found, alert.triggered"),
			endpoint.WithParams(
				parameter.StrParam("camera", parameter.Query, parameter.WithDescription("Camera identifier or * for all cameras")),
				parameter.StrParam("token", parameter.Query, parameter.WithDescription("Session token when the Authorization header cannot be set")),
			),
			endpoint.WithErrors([]response.Response{
				errUnauthorized,
				response.New(ErrorResponse{Code: "HTTP_ERROR", Message: "Upgrade Required"}, "426", "Upgrade Required"),
			}),
			endpoint.WithSecurity(bearer),
		),
	}

	sw.AddEndpoints(endpoints)
	sw.AddEndpoints(adminEndpoints())

	return sw
}
