package question

type seed struct {
	question string
	answer   string
	hints    []string
}

// defaultQuestions is inserted when the bank is empty, keyed by tech stack.
var defaultQuestions = map[string][]seed{
	"frontend": {
		{"What is the virtual representation of DOM that React uses for performance optimization?", "VirtualDOM",
			[]string{"Think about React's rendering optimization", "It's a concept related to DOM manipulation", "Starts with 'virtual'"}},
		{"Which CSS layout system is specifically designed for one-dimensional content flow?", "Flexbox",
			[]string{"Related to CSS layout systems", "Compare modern layout approaches", "One is 1D, other is 2D"}},
		{"What React hook is used for side effects in functional components?", "useEffect",
			[]string{"It's a built-in hook", "Handles component lifecycle", "Deals with side effects"}},
		{"What is the state management library commonly used with React?", "Redux",
			[]string{"Popular state management", "Uses actions and reducers", "Think global state"}},
		{"What CSS Grid property defines the size of columns?", "gridTemplateColumns",
			[]string{"Grid layout property", "Defines column widths", "Template for columns"}},
		{"What hook is used to access React context?", "useContext",
			[]string{"Accesses context", "Hook for shared data", "Context consumer"}},
	},
	"backend": {
		{"What database optimization technique improves the speed of data retrieval operations?", "Indexing",
			[]string{"Think about database performance", "Similar to a book's index", "Helps in faster data retrieval"}},
		{"What is the technique of breaking a database into smaller, more manageable pieces?", "Sharding",
			[]string{"Related to database scaling", "Involves breaking things into pieces", "Helps with large datasets"}},
		{"What pattern is used to handle asynchronous operations in modern JavaScript?", "Promises",
			[]string{"Handles async code", "Alternative to callbacks", "Resolves or rejects"}},
		{"What is the architectural style for building web services that use HTTP methods?", "REST",
			[]string{"Common API architecture", "Uses HTTP methods", "Representational State Transfer"}},
		{"What NoSQL database is known for its document-oriented structure?", "MongoDB",
			[]string{"Document database", "NoSQL solution", "Stores BSON documents"}},
		{"What is the process of combining multiple database tables?", "Join",
			[]string{"SQL operation", "Combines tables", "Relates data"}},
	},
	"fullstack": {
		{"What authentication mechanism uses encoded tokens for secure client-server communication?", "JWT",
			[]string{"Token-based auth", "JSON format", "Three parts separated by dots"}},
		{"What is the process of converting data structures into a format suitable for transmission?", "Serialization",
			[]string{"Data transformation", "Network communication", "Object to string conversion"}},
		{"What architectural pattern separates business logic from presentation?", "MVC",
			[]string{"Common design pattern", "Three main components", "Separates concerns"}},
		{"What is the standard format for API data exchange?", "JSON",
			[]string{"Data format", "JavaScript Object Notation", "Key-value pairs"}},
	},
	"mobile": {
		{"What framework by Meta allows cross-platform mobile development using JavaScript?", "ReactNative",
			[]string{"Cross-platform development", "Related to React", "Native mobile apps"}},
		{"What is Google's programming language for Android development?", "Kotlin",
			[]string{"Android development", "JVM language", "Google's preferred choice"}},
		{"What is Apple's new programming language for iOS development?", "Swift",
			[]string{"iOS development", "Replaced Objective-C", "Named after a bird"}},
		{"What framework is used for cross-platform development with a single codebase?", "Flutter",
			[]string{"Google framework", "Dart language", "Material Design"}},
	},
	"devops": {
		{"What technology enables application packaging with all its dependencies?", "Docker",
			[]string{"Container technology", "Portable environments", "Think shipping containers"}},
		{"What tool orchestrates container deployment and scaling?", "Kubernetes",
			[]string{"Container orchestration", "Originally by Google", "Often abbreviated as K8s"}},
		{"What practice involves automatically deploying code changes to production?", "CD",
			[]string{"Automation practice", "Part of CI/CD", "Continuous ___"}},
		{"What tool is used for infrastructure as code?", "Terraform",
			[]string{"Infrastructure automation", "HashiCorp product", "Declarative language"}},
	},
	"ai": {
		{"What optimization algorithm helps minimize the loss function in machine learning?", "GradientDescent",
			[]string{"Optimization algorithm", "Minimizes loss", "Step by step approach"}},
		{"What type of neural network is commonly used for image recognition?", "CNN",
			[]string{"Neural network type", "Good for images", "Convolutional ___"}},
		{"What technique helps prevent overfitting in machine learning models?", "Regularization",
			[]string{"Prevents overfitting", "Model complexity", "Adds constraints"}},
		{"What type of learning occurs when a model learns from labeled data?", "Supervised",
			[]string{"Learning type", "Uses labeled data", "Known outputs"}},
	},
}
