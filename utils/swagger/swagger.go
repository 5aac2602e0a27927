package swagger

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SwaggerConfig drives the rendered documentation page. Zero values fall back
// to the routes this API actually serves.
type SwaggerConfig struct {
	Title         string
	SwaggerDocURL string
	AuthURL       string
}

// swaggerHTML embeds Swagger UI with a sign-in panel above it. The panel
// posts email and password to the login endpoint and hands the returned JWT
// to preauthorizeApiKey, so every "Try it out" call carries the Bearer token
// without pasting it by hand.
const swaggerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <link rel="stylesheet" type="text/css" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5.9.0/swagger-ui-bundle.css" />
  <style>
    html {
      box-sizing: border-box;
      overflow-y: scroll;
    }
    *, *:before, *:after {
      box-sizing: inherit;
    }
    body {
      margin: 0;
      background: #fafafa;
    }

    .signin-panel {
      background: #f8f9fa;
      border-bottom: 1px solid #dee2e6;
      padding: 14px 20px;
    }

    .signin-panel h3 {
      color: #3b4151;
      font-family: sans-serif;
      font-size: 15px;
      margin: 0 0 8px;
    }

    .signin-row {
      align-items: end;
      display: flex;
      flex-wrap: wrap;
      gap: 10px;
    }

    .signin-field {
      display: flex;
      flex-direction: column;
    }

    .signin-field label {
      color: #3b4151;
      font-family: sans-serif;
      font-size: 12px;
      font-weight: 600;
      margin-bottom: 3px;
    }

    .signin-field input {
      border: 1px solid #d9d9d9;
      border-radius: 4px;
      font-size: 14px;
      padding: 8px 10px;
      width: 220px;
    }

    .signin-button {
      background: #4990e2;
      border: none;
      border-radius: 4px;
      color: #ffffff;
      cursor: pointer;
      font-size: 14px;
      font-weight: 600;
      padding: 9px 18px;
    }

    .signin-button:hover {
      background: #357abd;
    }

    .signin-button:disabled {
      background: #6c757d;
      cursor: not-allowed;
    }

    .signin-status {
      border-radius: 4px;
      display: none;
      font-family: sans-serif;
      font-size: 13px;
      margin-top: 10px;
      padding: 8px 10px;
    }

    .signin-status.success {
      background: #d4edda;
      border: 1px solid #c3e6cb;
      color: #155724;
      display: block;
    }

    .signin-status.error {
      background: #f8d7da;
      border: 1px solid #f5c6cb;
      color: #721c24;
      display: block;
    }
  </style>
</head>
<body>
  <div class="signin-panel">
    <h3>Sign in</h3>
    <div class="signin-row">
      <div class="signin-field">
        <label for="signin-email">Email</label>
        <input id="signin-email" type="email" placeholder="user@example.com" />
      </div>
      <div class="signin-field">
        <label for="signin-password">Password</label>
        <input id="signin-password" type="password" placeholder="Password" />
      </div>
      <button id="signin-button" class="signin-button" onclick="signIn()">Sign in &amp; authorize</button>
    </div>
    <div id="signin-status" class="signin-status"></div>
  </div>

  <div id="swagger-ui"></div>

  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5.9.0/swagger-ui-bundle.js" crossorigin></script>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5.9.0/swagger-ui-standalone-preset.js" crossorigin></script>
  <script>
    window.AUTH_URL = '{{.AuthURL}}';

    window.onload = () => {
      window.ui = SwaggerUIBundle({
        url: '{{.SwaggerDocURL}}',
        dom_id: '#swagger-ui',
        deepLinking: true,
        presets: [
          SwaggerUIBundle.presets.apis,
          SwaggerUIStandalonePreset
        ],
        plugins: [
          SwaggerUIBundle.plugins.DownloadUrl
        ],
        layout: "StandaloneLayout",
        docExpansion: "list",
        validatorUrl: null
      });
    };

    function showSigninStatus(message, kind) {
      const status = document.getElementById('signin-status');
      status.textContent = message;
      status.className = 'signin-status ' + kind;
      if (kind === 'success') {
        setTimeout(() => { status.className = 'signin-status'; }, 5000);
      }
    }

    window.signIn = async function() {
      const email = document.getElementById('signin-email').value.trim();
      const password = document.getElementById('signin-password').value;
      const button = document.getElementById('signin-button');

      if (!email || !password) {
        showSigninStatus('Email and password are required.', 'error');
        return;
      }

      button.disabled = true;

      try {
        const response = await fetch(window.AUTH_URL, {
          method: 'POST',
          headers: { 'Content-Type': 'application/json' },
          body: JSON.stringify({ email: email, password: password })
        });

        const data = await response.json();
        if (!response.ok) {
          throw new Error(data.message || 'Login failed');
        }

        const token = data.data && data.data.access_token;
        if (!token) {
          throw new Error('No access token in response');
        }

        window.ui.preauthorizeApiKey('BearerAuth', 'Bearer ' + token);
        document.getElementById('signin-password').value = '';
        showSigninStatus('Signed in. Requests now carry your Bearer token.', 'success');
      } catch (err) {
        showSigninStatus('Sign-in failed: ' + err.message, 'error');
      } finally {
        button.disabled = false;
      }
    };
  </script>
</body>
</html>`

// ServeSwaggerUI renders the documentation page for the given config.
func ServeSwaggerUI(config SwaggerConfig) gin.HandlerFunc {
	if config.Title == "" {
		config.Title = "Inventory & Maintenance API"
	}
	if config.SwaggerDocURL == "" {
		config.SwaggerDocURL = "/swagger/doc.json"
	}
	if config.AuthURL == "" {
		config.AuthURL = "/api/v1/auth/login"
	}

	tmpl := template.Must(template.New("swagger").Parse(swaggerHTML))

	return func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(c.Writer, config); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render API documentation"})
		}
	}
}
