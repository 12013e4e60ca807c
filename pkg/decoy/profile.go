package decoy

// Field describes one credential input advertised by a decoy login page.
type Field struct {
	LabelKey  string
	MaxLength int
}

// Profile is one decoy surface: the page it serves, the paths it answers
// on, and the field metadata that makes the page pass for the real thing.
type Profile struct {
	Name       string
	MountPaths []string
	Template   string
	TitleKey   string
	SubmitKey  string
	// ErrorKey resolves through the message catalog; ErrorOverride, when
	// set from config, wins over the catalog for every locale.
	ErrorKey      string
	ErrorOverride string
	Username      Field
	Password      Field
}

const (
	ProfileDjango    = "django"
	ProfileWordPress = "wordpress"
)

// Field limits mirror the upstream defaults of the software each profile
// imitates. Deviating from them would be a tell.
func djangoProfile() *Profile {
	return &Profile{
		Name:       ProfileDjango,
		MountPaths: []string{"/admin/", "/admin/login/"},
		Template:   "django_admin_login",
		TitleKey:   "django.title",
		SubmitKey:  "django.submit",
		ErrorKey:   "django.error",
		Username: Field{
			LabelKey:  "django.username_label",
			MaxLength: 150,
		},
		Password: Field{
			LabelKey:  "django.password_label",
			MaxLength: 128,
		},
	}
}

func wordpressProfile() *Profile {
	return &Profile{
		Name:       ProfileWordPress,
		MountPaths: []string{"/wp-admin.php", "/wp-login.php"},
		Template:   "wordpress_login",
		TitleKey:   "wordpress.title",
		SubmitKey:  "wordpress.submit",
		ErrorKey:   "wordpress.error",
		Username: Field{
			LabelKey:  "wordpress.username_label",
			MaxLength: 60,
		},
		Password: Field{
			LabelKey:  "wordpress.password_label",
			MaxLength: 255,
		},
	}
}
