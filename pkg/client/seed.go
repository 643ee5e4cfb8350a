package client

// 首次启动镜像为空时写入的演示数据，避免离线时一片空白

type seedUser struct {
	id, name, email, password, phone, userType string
}

var seedUsers = []seedUser{
	{"demo-employer-0001", "Айбек Касымов", "employer@demo.kg", "demo123", "+996555000001", "employer"},
	{"demo-worker-0001", "Нурлан Абдыраев", "worker@demo.kg", "demo123", "+996555000002", "worker"},
}

var seedJobs = []Job{
	{
		ID:             "demo-job-0001",
		Title:          "Курьер на день",
		Description:    "Доставка документов по центру города. Оплата в конце дня.",
		Salary:         "1000 сом",
		SalaryAmount:   1000,
		Location:       "Бишкек",
		Phone:          "+996555000001",
		Category:       "delivery",
		Urgency:        "high",
		EmploymentType: "part-time",
		Requirements:   []string{"Знание города", "Пунктуальность"},
		Employer:       "Айбек Касымов",
		UserID:         "demo-employer-0001",
	},
	{
		ID:             "demo-job-0002",
		Title:          "Помощник на склад",
		Description:    "Разгрузка и сортировка товара, работа на выходных.",
		Salary:         "1500 сом за смену",
		SalaryAmount:   1500,
		Location:       "Бишкек",
		Phone:          "+996555000001",
		Category:       "warehouse",
		Urgency:        "medium",
		EmploymentType: "part-time",
		Requirements:   []string{"Физическая выносливость"},
		Employer:       "Айбек Касымов",
		UserID:         "demo-employer-0001",
	},
	{
		ID:             "demo-job-0003",
		Title:          "Репетитор английского",
		Description:    "Занятия с школьником два раза в неделю, онлайн или у вас.",
		Salary:         "500 сом в час",
		SalaryAmount:   500,
		Location:       "Ош",
		Phone:          "+996555000001",
		Category:       "education",
		Urgency:        "low",
		EmploymentType: "freelance",
		Requirements:   []string{"Уровень B2+", "Опыт преподавания"},
		Employer:       "Айбек Касымов",
		UserID:         "demo-employer-0001",
	},
}
