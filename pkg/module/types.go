package module

// Config is the root object describing a KBase module. It is populated by
// parsing the module's kbase.yaml file.
type Config struct {
	ModuleName        string   `mapstructure:"module-name" validate:"required"`
	ModuleDescription string   `mapstructure:"module-description"`
	ServiceLanguage   string   `mapstructure:"service-language"`
	ModuleVersion     string   `mapstructure:"module-version"`
	Owners            []string `mapstructure:"owners"`
	DockerImageName   string   `mapstructure:"docker_image_name" validate:"required"`
}
